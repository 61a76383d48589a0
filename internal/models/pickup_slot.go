package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickupSlot is a bounded-capacity collection window offered by an NGO.
// Invariant: Available == (Bookings < MaxBookings), and 0 <= Bookings <=
// MaxBookings at all times. The booking path enforces this with a single
// conditional update on the document, never a read-modify-write pair.
type PickupSlot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date        time.Time          `bson:"date" json:"date"`
	StartTime   string             `bson:"startTime" json:"startTime"` // "HH:MM", 24-hour
	EndTime     string             `bson:"endTime" json:"endTime"`     // "HH:MM", 24-hour
	NGOID       primitive.ObjectID `bson:"ngoId" json:"ngoId"`
	MaxBookings int                `bson:"maxBookings" json:"maxBookings"`
	Bookings    int                `bson:"bookings" json:"bookings"`
	Available   bool               `bson:"available" json:"available"`
}
