package models

// DonationItem is one line of a donation: what is being given and how much.
type DonationItem struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"` // e.g. kg, packets, units
}

// Target is the collection goal of a campaign.
type Target struct {
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"` // kg, units, packets, kits
}

// TargetUnits are the units a campaign target may be expressed in.
var TargetUnits = []string{"kg", "units", "packets", "kits"}

// ValidTargetUnit reports whether unit is one of TargetUnits.
func ValidTargetUnit(unit string) bool {
	for _, u := range TargetUnits {
		if u == unit {
			return true
		}
	}
	return false
}
