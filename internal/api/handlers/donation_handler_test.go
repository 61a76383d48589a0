package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/models"
	"food-donation-api-server/internal/notify"
)

func newDonationRouter(h *DonationHandler, userID primitive.ObjectID) *gin.Engine {
	router := gin.New()
	auth := router.Group("/", authStub(userID))
	auth.POST("/api/donations", h.CreateDonation)
	auth.GET("/api/donations/my-donations", h.MyDonations)
	auth.GET("/api/donations/ngo", h.NGODonations)
	auth.PATCH("/api/donations/:id/status", h.UpdateStatus)
	return router
}

func TestCreateDonation(t *testing.T) {
	ngos := newFakeNGOs()
	donations := newFakeDonations()
	donorID := primitive.NewObjectID()
	ngo := ngos.add(models.NGO{Name: "Food Bank", UserID: primitive.NewObjectID(), Verified: true})

	h := &DonationHandler{Donations: donations, NGOs: ngos, Log: testLog}
	router := newDonationRouter(h, donorID)

	w := doJSON(t, router, http.MethodPost, "/api/donations", gin.H{
		"ngoId":         ngo.ID.Hex(),
		"items":         []gin.H{{"name": "Rice", "quantity": 5, "unit": "kg"}},
		"pickupAddress": "12 Main St",
	})
	wantStatus(t, w, http.StatusCreated)

	created, err := donations.ListByDonor(context.Background(), donorID)
	if err != nil {
		t.Fatalf("list donations: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("stored %d donations, want 1", len(created))
	}
	if created[0].Status != models.DonationPending {
		t.Errorf("new donation status = %q, want pending", created[0].Status)
	}
	if created[0].NGOID != ngo.ID {
		t.Errorf("new donation ngoId = %s, want %s", created[0].NGOID.Hex(), ngo.ID.Hex())
	}
}

func TestCreateDonationRejectsUnverifiedNGO(t *testing.T) {
	ngos := newFakeNGOs()
	unverified := ngos.add(models.NGO{Name: "New Org", UserID: primitive.NewObjectID(), Verified: false})

	h := &DonationHandler{Donations: newFakeDonations(), NGOs: ngos, Log: testLog}
	router := newDonationRouter(h, primitive.NewObjectID())

	w := doJSON(t, router, http.MethodPost, "/api/donations", gin.H{
		"ngoId": unverified.ID.Hex(),
		"items": []gin.H{{"name": "Rice", "quantity": 5, "unit": "kg"}},
	})
	wantStatus(t, w, http.StatusConflict)
}

func TestCreateDonationUnknownNGO(t *testing.T) {
	h := &DonationHandler{Donations: newFakeDonations(), NGOs: newFakeNGOs(), Log: testLog}
	router := newDonationRouter(h, primitive.NewObjectID())

	w := doJSON(t, router, http.MethodPost, "/api/donations", gin.H{
		"ngoId": primitive.NewObjectID().Hex(),
		"items": []gin.H{{"name": "Rice", "quantity": 5, "unit": "kg"}},
	})
	wantStatus(t, w, http.StatusNotFound)
}

func TestCreateDonationValidation(t *testing.T) {
	ngos := newFakeNGOs()
	ngo := ngos.add(models.NGO{Name: "Food Bank", UserID: primitive.NewObjectID(), Verified: true})
	h := &DonationHandler{Donations: newFakeDonations(), NGOs: ngos, Log: testLog}
	router := newDonationRouter(h, primitive.NewObjectID())

	cases := []struct {
		name string
		body gin.H
	}{
		{"no items", gin.H{"ngoId": ngo.ID.Hex(), "items": []gin.H{}}},
		{"zero quantity", gin.H{"ngoId": ngo.ID.Hex(), "items": []gin.H{{"name": "Rice", "quantity": 0, "unit": "kg"}}}},
		{"missing ngo", gin.H{"items": []gin.H{{"name": "Rice", "quantity": 1, "unit": "kg"}}}},
		{"bad ngo id", gin.H{"ngoId": "nope", "items": []gin.H{{"name": "Rice", "quantity": 1, "unit": "kg"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/donations", tc.body)
			wantStatus(t, w, http.StatusBadRequest)
		})
	}
}

func statusFixture(t *testing.T) (*DonationHandler, primitive.ObjectID, models.Donation, *fakeNotifications) {
	t.Helper()
	ngos := newFakeNGOs()
	donations := newFakeDonations()
	notifications := newFakeNotifications()

	ngoOwner := primitive.NewObjectID()
	ngo := ngos.add(models.NGO{Name: "Food Bank", UserID: ngoOwner, Verified: true})
	donation := donations.add(models.Donation{
		DonorID:   primitive.NewObjectID(),
		NGOID:     ngo.ID,
		Items:     []models.DonationItem{{Name: "Rice", Quantity: 5, Unit: "kg"}},
		Status:    models.DonationPending,
		CreatedAt: time.Now(),
	})

	h := &DonationHandler{
		Donations: donations,
		NGOs:      ngos,
		Notifier:  &notify.Notifier{Store: notifications, Log: testLog},
		Log:       testLog,
	}
	return h, ngoOwner, donation, notifications
}

func TestUpdateStatus(t *testing.T) {
	h, ngoOwner, donation, notifications := statusFixture(t)
	router := newDonationRouter(h, ngoOwner)

	w := doJSON(t, router, http.MethodPatch, "/api/donations/"+donation.ID.Hex()+"/status", gin.H{"status": "accepted"})
	wantStatus(t, w, http.StatusOK)

	updated, err := h.Donations.FindByID(context.Background(), donation.ID)
	if err != nil {
		t.Fatalf("reload donation: %v", err)
	}
	if updated.Status != models.DonationAccepted {
		t.Errorf("status = %q, want accepted", updated.Status)
	}

	// The donor hears about the change.
	got, err := notifications.ListByUser(context.Background(), donation.DonorID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("donor received %d notifications, want 1", len(got))
	}
	if got[0].Type != models.NotifDonationUpdate {
		t.Errorf("notification type = %q, want %q", got[0].Type, models.NotifDonationUpdate)
	}
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	h, ngoOwner, donation, _ := statusFixture(t)
	router := newDonationRouter(h, ngoOwner)

	// pending -> completed skips acceptance.
	w := doJSON(t, router, http.MethodPatch, "/api/donations/"+donation.ID.Hex()+"/status", gin.H{"status": "completed"})
	wantStatus(t, w, http.StatusConflict)

	// Terminal states admit nothing.
	if _, err := h.Donations.UpdateStatus(context.Background(), donation.ID, models.DonationCancelled); err != nil {
		t.Fatalf("seed status: %v", err)
	}
	w = doJSON(t, router, http.MethodPatch, "/api/donations/"+donation.ID.Hex()+"/status", gin.H{"status": "accepted"})
	wantStatus(t, w, http.StatusConflict)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	h, ngoOwner, donation, _ := statusFixture(t)
	router := newDonationRouter(h, ngoOwner)

	w := doJSON(t, router, http.MethodPatch, "/api/donations/"+donation.ID.Hex()+"/status", gin.H{"status": "approved"})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestUpdateStatusForeignNGO(t *testing.T) {
	h, _, donation, _ := statusFixture(t)

	otherOwner := primitive.NewObjectID()
	h.NGOs.(*fakeNGOs).add(models.NGO{Name: "Other Org", UserID: otherOwner, Verified: true})
	router := newDonationRouter(h, otherOwner)

	w := doJSON(t, router, http.MethodPatch, "/api/donations/"+donation.ID.Hex()+"/status", gin.H{"status": "accepted"})
	wantStatus(t, w, http.StatusForbidden)
}

func TestUpdateStatusWithoutNGOProfile(t *testing.T) {
	h, _, donation, _ := statusFixture(t)
	router := newDonationRouter(h, primitive.NewObjectID())

	w := doJSON(t, router, http.MethodPatch, "/api/donations/"+donation.ID.Hex()+"/status", gin.H{"status": "accepted"})
	wantStatus(t, w, http.StatusForbidden)
}
