package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignStatus is the publication state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignCompleted, CampaignCancelled:
		return true
	}
	return false
}

// CampaignPriority conveys urgency to donors browsing campaigns.
type CampaignPriority string

const (
	PriorityLow      CampaignPriority = "low"
	PriorityMedium   CampaignPriority = "medium"
	PriorityHigh     CampaignPriority = "high"
	PriorityCritical CampaignPriority = "critical"
	PriorityUrgent   CampaignPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p CampaignPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical, PriorityUrgent:
		return true
	}
	return false
}

// Campaign is a time-boxed collection goal owned by an NGO.
//
// DonorCount increments on every contribution submission, not on acceptance,
// and is never decremented on cancellation. Current tracks progress toward the
// target and is not reconciled from accepted donations.
type Campaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	NGOID       primitive.ObjectID `bson:"ngoId" json:"ngoId"`
	Target      Target             `bson:"target" json:"target"`
	Current     float64            `bson:"current" json:"current"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	Priority    CampaignPriority   `bson:"priority" json:"priority"`
	Status      CampaignStatus     `bson:"status" json:"status"`
	DonorCount  int                `bson:"donorCount" json:"donorCount"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
