package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NGO is an organization profile owned by a user account. Unverified NGOs are
// visible via their detail endpoint but cannot receive donations or publish
// campaigns until an admin flips Verified.
type NGO struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	ContactEmail string             `bson:"contactEmail" json:"contactEmail"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Website      string             `bson:"website,omitempty" json:"website,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Verified     bool               `bson:"verified" json:"verified"`
}
