package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/backend/internal/models"
)

func newTestStores() (*MemoryUserService, *MemoryConnectionStore) {
	return NewMemoryUserService(), NewMemoryConnectionStore()
}

func seedUser(t *testing.T, users *MemoryUserService, firstName string, complete bool) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := &models.User{
		ID:                uuid.New().String(),
		FirstName:         firstName,
		Username:          firstName + uuid.New().String()[:8],
		Email:             firstName + uuid.New().String()[:8] + "@example.com",
		Bio:               models.DefaultBio,
		ExperienceLevel:   "junior",
		MembershipType:    "basic",
		Provider:          models.ProviderLocal,
		IsProfileComplete: complete,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", firstName, err)
	}
	return user
}

func TestConnectionService_Send(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	svc := NewConnectionService(users, store)

	alice := seedUser(t, users, "alice", true)
	bob := seedUser(t, users, "bob", true)

	t.Run("invalid status", func(t *testing.T) {
		for _, status := range []models.ConnectionStatus{models.StatusAccepted, models.StatusRejected, "banana", ""} {
			if _, err := svc.Send(ctx, alice.ID, bob.ID, status, ""); err != ErrInvalidStatus {
				t.Errorf("Send(status=%q) error = %v, want ErrInvalidStatus", status, err)
			}
		}
	})

	t.Run("self reference", func(t *testing.T) {
		for _, status := range []models.ConnectionStatus{models.StatusInterested, models.StatusIgnored} {
			if _, err := svc.Send(ctx, alice.ID, alice.ID, status, ""); err != ErrSelfRequest {
				t.Errorf("Send(self, status=%q) error = %v, want ErrSelfRequest", status, err)
			}
		}
	})

	t.Run("unknown recipient", func(t *testing.T) {
		if _, err := svc.Send(ctx, alice.ID, "missing", models.StatusInterested, ""); err != ErrUserNotFound {
			t.Errorf("Send(unknown recipient) error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("success then duplicate in both directions", func(t *testing.T) {
		req, err := svc.Send(ctx, alice.ID, bob.ID, models.StatusInterested, "hello")
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if req.Status != models.StatusInterested {
			t.Errorf("req.Status = %q, want interested", req.Status)
		}
		if req.FromUserID != alice.ID || req.ToUserID != bob.ID {
			t.Errorf("request endpoints = (%s,%s), want (%s,%s)", req.FromUserID, req.ToUserID, alice.ID, bob.ID)
		}

		if _, err := svc.Send(ctx, alice.ID, bob.ID, models.StatusInterested, ""); err != ErrConnectionExists {
			t.Errorf("duplicate Send error = %v, want ErrConnectionExists", err)
		}
		// Counter-request from the other side is also blocked.
		if _, err := svc.Send(ctx, bob.ID, alice.ID, models.StatusInterested, ""); err != ErrConnectionExists {
			t.Errorf("reverse Send error = %v, want ErrConnectionExists", err)
		}
	})

	t.Run("ignored is a valid send status", func(t *testing.T) {
		carol := seedUser(t, users, "carol", true)
		req, err := svc.Send(ctx, alice.ID, carol.ID, models.StatusIgnored, "")
		if err != nil {
			t.Fatalf("Send(ignored) error = %v", err)
		}
		if req.Status != models.StatusIgnored {
			t.Errorf("req.Status = %q, want ignored", req.Status)
		}
	})
}

func TestConnectionService_Review(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	svc := NewConnectionService(users, store)

	alice := seedUser(t, users, "alice", true)
	bob := seedUser(t, users, "bob", true)

	req, err := svc.Send(ctx, alice.ID, bob.ID, models.StatusInterested, "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	t.Run("invalid status", func(t *testing.T) {
		for _, status := range []models.ConnectionStatus{models.StatusInterested, models.StatusIgnored, "nope"} {
			if _, err := svc.Review(ctx, bob.ID, req.ID, status); err != ErrInvalidStatus {
				t.Errorf("Review(status=%q) error = %v, want ErrInvalidStatus", status, err)
			}
		}
	})

	t.Run("only the recipient may review", func(t *testing.T) {
		if _, err := svc.Review(ctx, alice.ID, req.ID, models.StatusAccepted); err != ErrRequestNotFound {
			t.Errorf("Review by sender error = %v, want ErrRequestNotFound", err)
		}
	})

	t.Run("unknown request id", func(t *testing.T) {
		if _, err := svc.Review(ctx, bob.ID, "missing", models.StatusAccepted); err != ErrRequestNotFound {
			t.Errorf("Review(unknown id) error = %v, want ErrRequestNotFound", err)
		}
	})

	t.Run("accept once, second review fails", func(t *testing.T) {
		updated, err := svc.Review(ctx, bob.ID, req.ID, models.StatusAccepted)
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if updated.Status != models.StatusAccepted {
			t.Errorf("updated.Status = %q, want accepted", updated.Status)
		}

		if _, err := svc.Review(ctx, bob.ID, req.ID, models.StatusRejected); err != ErrRequestNotFound {
			t.Errorf("second Review error = %v, want ErrRequestNotFound", err)
		}
	})

	t.Run("ignored requests are not reviewable", func(t *testing.T) {
		carol := seedUser(t, users, "carol", true)
		ignored, err := svc.Send(ctx, alice.ID, carol.ID, models.StatusIgnored, "")
		if err != nil {
			t.Fatalf("Send(ignored) error = %v", err)
		}
		if _, err := svc.Review(ctx, carol.ID, ignored.ID, models.StatusAccepted); err != ErrRequestNotFound {
			t.Errorf("Review(ignored request) error = %v, want ErrRequestNotFound", err)
		}
	})
}

func TestConnectionService_ListReceived(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	svc := NewConnectionService(users, store)

	target := seedUser(t, users, "target", true)

	for i := 0; i < 15; i++ {
		sender := seedUser(t, users, fmt.Sprintf("sender%d", i), true)
		if _, err := svc.Send(ctx, sender.ID, target.ID, models.StatusInterested, ""); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	// Resolved and ignored requests must not appear.
	accepter := seedUser(t, users, "accepter", true)
	accReq, _ := svc.Send(ctx, accepter.ID, target.ID, models.StatusInterested, "")
	if _, err := svc.Review(ctx, target.ID, accReq.ID, models.StatusAccepted); err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	ignorer := seedUser(t, users, "ignorer", true)
	if _, err := svc.Send(ctx, ignorer.ID, target.ID, models.StatusIgnored, ""); err != nil {
		t.Fatalf("Send(ignored) error = %v", err)
	}

	page1, err := svc.ListReceived(ctx, target.ID, models.NewPageParams(1, 10))
	if err != nil {
		t.Fatalf("ListReceived() error = %v", err)
	}
	got1 := page1.Data.([]models.ReceivedRequest)
	if len(got1) != 10 {
		t.Errorf("page 1 len = %d, want 10", len(got1))
	}
	for _, rr := range got1 {
		if rr.Status != models.StatusInterested {
			t.Errorf("received request status = %q, want interested", rr.Status)
		}
		if rr.From.ID == "" || rr.From.FirstName == "" {
			t.Errorf("sender profile not joined: %+v", rr.From)
		}
	}
	if !page1.Pagination.HasNextPage || page1.Pagination.HasPrevPage {
		t.Errorf("page 1 pagination = %+v, want hasNext=true hasPrev=false", page1.Pagination)
	}

	page2, err := svc.ListReceived(ctx, target.ID, models.NewPageParams(2, 10))
	if err != nil {
		t.Fatalf("ListReceived(page 2) error = %v", err)
	}
	got2 := page2.Data.([]models.ReceivedRequest)
	if len(got2) != 5 {
		t.Errorf("page 2 len = %d, want 5", len(got2))
	}
	if page2.Pagination.TotalItems != 15 {
		t.Errorf("TotalItems = %d, want 15", page2.Pagination.TotalItems)
	}
	if page2.Pagination.HasNextPage {
		t.Error("page 2 HasNextPage = true, want false")
	}
	if !page2.Pagination.HasPrevPage {
		t.Error("page 2 HasPrevPage = false, want true")
	}
}

func TestConnectionService_ListConnections(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	svc := NewConnectionService(users, store)

	alice := seedUser(t, users, "alice", true)
	bob := seedUser(t, users, "bob", true)
	carol := seedUser(t, users, "carol", true)

	req, err := svc.Send(ctx, alice.ID, bob.ID, models.StatusInterested, "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := svc.Review(ctx, bob.ID, req.ID, models.StatusAccepted); err != nil {
		t.Fatalf("Review() error = %v", err)
	}

	// A rejected pair never shows up as a connection.
	rej, _ := svc.Send(ctx, carol.ID, alice.ID, models.StatusInterested, "")
	if _, err := svc.Review(ctx, alice.ID, rej.ID, models.StatusRejected); err != nil {
		t.Fatalf("Review(reject) error = %v", err)
	}

	alicePage, err := svc.ListConnections(ctx, alice.ID, models.NewPageParams(1, 10))
	if err != nil {
		t.Fatalf("ListConnections(alice) error = %v", err)
	}
	aliceConns := alicePage.Data.([]models.Connection)
	if len(aliceConns) != 1 {
		t.Fatalf("alice connections = %d, want 1", len(aliceConns))
	}
	if aliceConns[0].User.ID != bob.ID {
		t.Errorf("alice's connection resolves to %s, want bob (%s)", aliceConns[0].User.ID, bob.ID)
	}

	bobPage, err := svc.ListConnections(ctx, bob.ID, models.NewPageParams(1, 10))
	if err != nil {
		t.Fatalf("ListConnections(bob) error = %v", err)
	}
	bobConns := bobPage.Data.([]models.Connection)
	if len(bobConns) != 1 {
		t.Fatalf("bob connections = %d, want 1", len(bobConns))
	}
	if bobConns[0].User.ID != alice.ID {
		t.Errorf("bob's connection resolves to %s, want alice (%s)", bobConns[0].User.ID, alice.ID)
	}
}

// End-to-end walk through the lifecycle shared with the feed.
func TestConnectionLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	connections := NewConnectionService(users, store)
	feed := NewFeedService(users, store)

	alice := seedUser(t, users, "alice", true)
	bob := seedUser(t, users, "bob", true)
	carol := seedUser(t, users, "carol", true)

	req, err := connections.Send(ctx, alice.ID, bob.ID, models.StatusInterested, "hi bob")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	page, err := feed.GetFeed(ctx, alice.ID, models.FeedFilter{}, models.NewPageParams(1, 10))
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	ids := feedIDs(page)
	if contains := ids[bob.ID]; contains {
		t.Error("alice's feed contains bob after sending a request")
	}
	if !ids[carol.ID] {
		t.Error("alice's feed is missing carol")
	}

	if _, err := connections.Review(ctx, bob.ID, req.ID, models.StatusAccepted); err != nil {
		t.Fatalf("Review() error = %v", err)
	}

	connsPage, err := connections.ListConnections(ctx, alice.ID, models.NewPageParams(1, 10))
	if err != nil {
		t.Fatalf("ListConnections() error = %v", err)
	}
	conns := connsPage.Data.([]models.Connection)
	if len(conns) != 1 || conns[0].User.ID != bob.ID {
		t.Fatalf("ListConnections(alice) = %+v, want just bob", conns)
	}

	if _, err := connections.Send(ctx, alice.ID, bob.ID, models.StatusInterested, ""); err != ErrConnectionExists {
		t.Errorf("re-send after accept error = %v, want ErrConnectionExists", err)
	}
}

func feedIDs(page models.Page) map[string]bool {
	ids := map[string]bool{}
	for _, u := range page.Data.([]models.PublicUser) {
		ids[u.ID] = true
	}
	return ids
}
