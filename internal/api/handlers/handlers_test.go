package handlers

// In-memory store fakes shared by the handler tests. They hold documents in
// maps under a mutex so tests can exercise concurrent request paths without a
// running MongoDB.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/api/middleware"
	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLog = zerolog.Nop()

// authStub injects an authenticated identity the way Authenticate would.
func authStub(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID.Hex())
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

// --- users ---

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context, page store.Page) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) SetRole(_ context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) CountByRole(_ context.Context, role models.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// --- NGOs ---

type fakeNGOs struct {
	mu   sync.Mutex
	ngos map[primitive.ObjectID]*models.NGO
}

func newFakeNGOs() *fakeNGOs {
	return &fakeNGOs{ngos: make(map[primitive.ObjectID]*models.NGO)}
}

func (f *fakeNGOs) add(n models.NGO) models.NGO {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	cp := n
	f.ngos[n.ID] = &cp
	return n
}

func (f *fakeNGOs) Insert(_ context.Context, n *models.NGO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.ngos {
		if existing.UserID == n.UserID {
			return store.ErrDuplicate
		}
	}
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	cp := *n
	f.ngos[n.ID] = &cp
	return nil
}

func (f *fakeNGOs) FindByID(_ context.Context, id primitive.ObjectID) (*models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.ngos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNGOs) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.ngos {
		if n.UserID == userID {
			cp := *n
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeNGOs) ListVerified(_ context.Context) ([]models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.NGO{}
	for _, n := range f.ngos {
		if n.Verified {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNGOs) List(_ context.Context, page store.Page) ([]models.NGO, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.NGO, 0, len(f.ngos))
	for _, n := range f.ngos {
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNGOs) UpdateProfile(_ context.Context, n *models.NGO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.ngos[n.ID]
	if !ok {
		return store.ErrNotFound
	}
	verified := existing.Verified
	cp := *n
	cp.Verified = verified
	f.ngos[n.ID] = &cp
	return nil
}

func (f *fakeNGOs) Verify(_ context.Context, id primitive.ObjectID) (*models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.ngos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	n.Verified = true
	cp := *n
	return &cp, nil
}

func (f *fakeNGOs) Search(_ context.Context, query string, limit int) ([]models.NGO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.NGO{}
	for _, n := range f.ngos {
		if n.Verified && len(out) < limit {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNGOs) CountVerified(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, ngo := range f.ngos {
		if ngo.Verified {
			n++
		}
	}
	return n, nil
}

// --- donations ---

type fakeDonations struct {
	mu        sync.Mutex
	donations map[primitive.ObjectID]*models.Donation
}

func newFakeDonations() *fakeDonations {
	return &fakeDonations{donations: make(map[primitive.ObjectID]*models.Donation)}
}

func (f *fakeDonations) add(d models.Donation) models.Donation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	cp := d
	f.donations[d.ID] = &cp
	return d
}

func (f *fakeDonations) Insert(_ context.Context, d *models.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	cp := *d
	f.donations[d.ID] = &cp
	return nil
}

func (f *fakeDonations) FindByID(_ context.Context, id primitive.ObjectID) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDonations) ListByDonor(_ context.Context, donorID primitive.ObjectID) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Donation{}
	for _, d := range f.donations {
		if d.DonorID == donorID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonations) ListByNGO(_ context.Context, ngoID primitive.ObjectID) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Donation{}
	for _, d := range f.donations {
		if d.NGOID == ngoID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonations) List(_ context.Context, filter store.DonationFilter, page store.Page) ([]models.Donation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Donation{}
	for _, d := range f.donations {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.NGOID != nil && d.NGOID != *filter.NGOID {
			continue
		}
		if filter.DonorID != nil && d.DonorID != *filter.DonorID {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDonations) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.DonationStatus) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d.Status = status
	cp := *d
	return &cp, nil
}

func (f *fakeDonations) AttachPickup(_ context.Context, id primitive.ObjectID, ref models.PickupSlotRef, pickupDate time.Time) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d.PickupSlot = &ref
	d.PickupDate = &pickupDate
	cp := *d
	return &cp, nil
}

func (f *fakeDonations) Count(_ context.Context, filter store.DonationFilter) (int64, error) {
	_, n, err := f.List(context.Background(), filter, store.Page{})
	return n, err
}

func (f *fakeDonations) ListInStatuses(_ context.Context, statuses ...models.DonationStatus) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Donation{}
	for _, d := range f.donations {
		for _, s := range statuses {
			if d.Status == s {
				out = append(out, *d)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDonations) CountForDonor(_ context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, d := range f.donations {
		if d.DonorID != donorID {
			continue
		}
		for _, s := range statuses {
			if d.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeDonations) DistinctNGOsForDonor(_ context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[primitive.ObjectID]bool{}
	for _, d := range f.donations {
		if d.DonorID != donorID {
			continue
		}
		for _, s := range statuses {
			if d.Status == s {
				seen[d.NGOID] = true
				break
			}
		}
	}
	return len(seen), nil
}

func (f *fakeDonations) MonthlyCounts(_ context.Context, year int) ([12]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var counts [12]int
	for _, d := range f.donations {
		if d.CreatedAt.Year() == year {
			counts[int(d.CreatedAt.Month())-1]++
		}
	}
	return counts, nil
}

// --- campaigns ---

type fakeCampaigns struct {
	mu        sync.Mutex
	campaigns map[primitive.ObjectID]*models.Campaign
}

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{campaigns: make(map[primitive.ObjectID]*models.Campaign)}
}

func (f *fakeCampaigns) add(c models.Campaign) models.Campaign {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := c
	f.campaigns[c.ID] = &cp
	return c
}

func (f *fakeCampaigns) Insert(_ context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	f.campaigns[c.ID] = &cp
	return nil
}

func (f *fakeCampaigns) FindByID(_ context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaigns) ListActive(_ context.Context, filter store.CampaignFilter) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Campaign{}
	for _, c := range f.campaigns {
		if c.Status != models.CampaignActive {
			continue
		}
		if filter.NGOID != nil && c.NGOID != *filter.NGOID {
			continue
		}
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCampaigns) IncrementDonorCount(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return store.ErrNotFound
	}
	c.DonorCount++
	return nil
}

func (f *fakeCampaigns) SetImage(_ context.Context, id primitive.ObjectID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Image = url
	return nil
}

func (f *fakeCampaigns) Search(_ context.Context, query string, limit int) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Campaign{}
	for _, c := range f.campaigns {
		if c.Status == models.CampaignActive && len(out) < limit {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCampaigns) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.campaigns {
		if c.Status == models.CampaignActive && c.EndDate.Before(now) {
			c.Status = models.CampaignCompleted
			n++
		}
	}
	return n, nil
}

// --- slots ---

type fakeSlots struct {
	mu    sync.Mutex
	slots map[primitive.ObjectID]*models.PickupSlot
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{slots: make(map[primitive.ObjectID]*models.PickupSlot)}
}

func (f *fakeSlots) add(s models.PickupSlot) models.PickupSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	cp := s
	f.slots[s.ID] = &cp
	return s
}

func (f *fakeSlots) get(id primitive.ObjectID) models.PickupSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.slots[id]
}

func (f *fakeSlots) Insert(_ context.Context, s *models.PickupSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	cp := *s
	f.slots[s.ID] = &cp
	return nil
}

func (f *fakeSlots) FindByID(_ context.Context, id primitive.ObjectID) (*models.PickupSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlots) ListAvailable(_ context.Context, ngoID primitive.ObjectID, from, to time.Time) ([]models.PickupSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.PickupSlot{}
	for _, s := range f.slots {
		if s.NGOID == ngoID && s.Available && !s.Date.Before(from) && s.Date.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// Reserve mirrors the production conditional update: the check and the
// increment happen under one lock, so racing callers cannot both claim the
// last unit.
func (f *fakeSlots) Reserve(_ context.Context, id primitive.ObjectID) (*models.PickupSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[id]
	if !ok || !s.Available || s.Bookings >= s.MaxBookings {
		return nil, store.ErrSlotUnavailable
	}
	s.Bookings++
	s.Available = s.Bookings < s.MaxBookings
	cp := *s
	return &cp, nil
}

func (f *fakeSlots) Release(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[id]
	if !ok {
		return store.ErrNotFound
	}
	if s.Bookings > 0 {
		s.Bookings--
	}
	s.Available = true
	return nil
}

// --- notifications ---

type fakeNotifications struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{}
}

func (f *fakeNotifications) Insert(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
		}
	}
	return nil
}

// Interface conformance.
var (
	_ store.Users         = (*fakeUsers)(nil)
	_ store.NGOs          = (*fakeNGOs)(nil)
	_ store.Donations     = (*fakeDonations)(nil)
	_ store.Campaigns     = (*fakeCampaigns)(nil)
	_ store.Slots         = (*fakeSlots)(nil)
	_ store.Notifications = (*fakeNotifications)(nil)
)
