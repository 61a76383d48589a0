// Package store defines the data-access boundary of the API server. Handlers
// depend on these interfaces only; the mongostore subpackage implements them
// against MongoDB. The split keeps persistence out of request handling and
// lets handler tests run against in-memory fakes.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/models"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("store: duplicate")
	// ErrSlotUnavailable is returned by Reserve when the slot is full,
	// unavailable, or was taken by a concurrent booking.
	ErrSlotUnavailable = errors.New("store: slot unavailable")
)

// Page is a pagination request. Normalize before use.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps a page request to sane defaults (page 1, 10 per page).
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	return p
}

// Skip is the number of documents to skip for this page.
func (p Page) Skip() int {
	return (p.Number - 1) * p.PerPage
}

// DonationFilter narrows admin donation listings. Zero values mean "any".
type DonationFilter struct {
	Status  models.DonationStatus
	NGOID   *primitive.ObjectID
	DonorID *primitive.ObjectID
}

// CampaignFilter narrows public campaign listings. Zero values mean "any".
type CampaignFilter struct {
	NGOID    *primitive.ObjectID
	Priority models.CampaignPriority
}

type Users interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page Page) ([]models.User, int64, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type NGOs interface {
	Insert(ctx context.Context, n *models.NGO) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.NGO, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.NGO, error)
	ListVerified(ctx context.Context) ([]models.NGO, error)
	List(ctx context.Context, page Page) ([]models.NGO, int64, error)
	UpdateProfile(ctx context.Context, n *models.NGO) error
	Verify(ctx context.Context, id primitive.ObjectID) (*models.NGO, error)
	Search(ctx context.Context, query string, limit int) ([]models.NGO, error)
	CountVerified(ctx context.Context) (int64, error)
}

type Donations interface {
	Insert(ctx context.Context, d *models.Donation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
	ListByDonor(ctx context.Context, donorID primitive.ObjectID) ([]models.Donation, error)
	ListByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]models.Donation, error)
	List(ctx context.Context, filter DonationFilter, page Page) ([]models.Donation, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.DonationStatus) (*models.Donation, error)
	// AttachPickup binds a slot reference and pickup date to a donation.
	AttachPickup(ctx context.Context, id primitive.ObjectID, ref models.PickupSlotRef, pickupDate time.Time) (*models.Donation, error)
	Count(ctx context.Context, filter DonationFilter) (int64, error)
	ListInStatuses(ctx context.Context, statuses ...models.DonationStatus) ([]models.Donation, error)
	CountForDonor(ctx context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) (int64, error)
	DistinctNGOsForDonor(ctx context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) (int, error)
	// MonthlyCounts returns donation counts per calendar month of year,
	// index 0 = January.
	MonthlyCounts(ctx context.Context, year int) ([12]int, error)
}

type Campaigns interface {
	Insert(ctx context.Context, c *models.Campaign) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	ListActive(ctx context.Context, filter CampaignFilter) ([]models.Campaign, error)
	// IncrementDonorCount bumps donorCount by one with a single $inc.
	IncrementDonorCount(ctx context.Context, id primitive.ObjectID) error
	SetImage(ctx context.Context, id primitive.ObjectID, url string) error
	Search(ctx context.Context, query string, limit int) ([]models.Campaign, error)
	// CloseExpired marks active campaigns whose endDate has passed as
	// completed, returning the number of campaigns closed.
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type Slots interface {
	Insert(ctx context.Context, s *models.PickupSlot) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PickupSlot, error)
	// ListAvailable returns bookable slots for the NGO within [from, to),
	// sorted by date then start time ascending.
	ListAvailable(ctx context.Context, ngoID primitive.ObjectID, from, to time.Time) ([]models.PickupSlot, error)
	// Reserve claims one capacity unit of the slot. The check and the
	// increment are one conditional update so concurrent callers cannot
	// overbook; losers get ErrSlotUnavailable. Returns the updated slot.
	Reserve(ctx context.Context, id primitive.ObjectID) (*models.PickupSlot, error)
	// Release returns one capacity unit, undoing a Reserve whose follow-up
	// work failed. Never drops bookings below zero.
	Release(ctx context.Context, id primitive.ObjectID) error
}

type Notifications interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

// Store bundles the per-entity interfaces for wiring through the router.
type Store struct {
	Users         Users
	NGOs          NGOs
	Donations     Donations
	Campaigns     Campaigns
	Slots         Slots
	Notifications Notifications
}
