package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationAccepted  DonationStatus = "accepted"
	DonationCompleted DonationStatus = "completed"
	DonationCancelled DonationStatus = "cancelled"
)

// Valid reports whether s is a known donation status.
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationAccepted, DonationCompleted, DonationCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s DonationStatus) Terminal() bool {
	return s == DonationCompleted || s == DonationCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Legal paths: pending -> accepted -> completed, and pending|accepted -> cancelled.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	switch s {
	case DonationPending:
		return next == DonationAccepted || next == DonationCancelled
	case DonationAccepted:
		return next == DonationCompleted || next == DonationCancelled
	}
	return false
}

// PickupSlotRef is the slot binding embedded in a donation once a pickup has
// been scheduled. It references the slot without merging lifetimes: deleting
// the slot does not cascade into the donation.
type PickupSlotRef struct {
	SlotID    primitive.ObjectID `bson:"slotId" json:"slotId"`
	StartTime string             `bson:"startTime" json:"startTime"`
	EndTime   string             `bson:"endTime" json:"endTime"`
}

// Donation is a donor's offer of items to an NGO, optionally tied to a
// campaign and to at most one pickup slot.
type Donation struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DonorID       primitive.ObjectID  `bson:"donorId" json:"donorId"`
	NGOID         primitive.ObjectID  `bson:"ngoId" json:"ngoId"`
	CampaignID    *primitive.ObjectID `bson:"campaignId,omitempty" json:"campaignId,omitempty"`
	Items         []DonationItem      `bson:"items" json:"items"`
	Status        DonationStatus      `bson:"status" json:"status"`
	PickupAddress string              `bson:"pickupAddress,omitempty" json:"pickupAddress,omitempty"`
	PickupDate    *time.Time          `bson:"pickupDate,omitempty" json:"pickupDate,omitempty"`
	PickupSlot    *PickupSlotRef      `bson:"pickupSlot,omitempty" json:"pickupSlot,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}
