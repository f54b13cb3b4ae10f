package services

import (
	"context"
	"testing"

	"github.com/devconnect/backend/internal/models"
)

func TestFeedService_ExcludesRelatedUsers(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	connections := NewConnectionService(users, store)
	feed := NewFeedService(users, store)

	me := seedUser(t, users, "me", true)
	pending := seedUser(t, users, "pending", true)
	ignored := seedUser(t, users, "ignored", true)
	accepted := seedUser(t, users, "accepted", true)
	rejected := seedUser(t, users, "rejected", true)
	stranger := seedUser(t, users, "stranger", true)

	if _, err := connections.Send(ctx, me.ID, pending.ID, models.StatusInterested, ""); err != nil {
		t.Fatalf("Send(pending) error = %v", err)
	}
	if _, err := connections.Send(ctx, me.ID, ignored.ID, models.StatusIgnored, ""); err != nil {
		t.Fatalf("Send(ignored) error = %v", err)
	}

	accReq, _ := connections.Send(ctx, accepted.ID, me.ID, models.StatusInterested, "")
	if _, err := connections.Review(ctx, me.ID, accReq.ID, models.StatusAccepted); err != nil {
		t.Fatalf("Review(accept) error = %v", err)
	}
	rejReq, _ := connections.Send(ctx, rejected.ID, me.ID, models.StatusInterested, "")
	if _, err := connections.Review(ctx, me.ID, rejReq.ID, models.StatusRejected); err != nil {
		t.Fatalf("Review(reject) error = %v", err)
	}

	page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{}, models.NewPageParams(1, 50))
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	ids := feedIDs(page)

	for name, excluded := range map[string]string{
		"self":     me.ID,
		"pending":  pending.ID,
		"ignored":  ignored.ID,
		"accepted": accepted.ID,
		"rejected": rejected.ID,
	} {
		if ids[excluded] {
			t.Errorf("feed contains %s user, want excluded", name)
		}
	}
	if !ids[stranger.ID] {
		t.Error("feed is missing the unrelated user")
	}
	if page.Pagination.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", page.Pagination.TotalItems)
	}
}

func TestFeedService_ExcludesIncompleteProfiles(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	feed := NewFeedService(users, store)

	me := seedUser(t, users, "me", true)
	seedUser(t, users, "ready", true)
	incomplete := seedUser(t, users, "incomplete", false)

	page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{}, models.NewPageParams(1, 50))
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	ids := feedIDs(page)
	if ids[incomplete.ID] {
		t.Error("feed contains a user with an incomplete profile")
	}
	if page.Pagination.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", page.Pagination.TotalItems)
	}
}

func TestFeedService_Filters(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	feed := NewFeedService(users, store)

	me := seedUser(t, users, "me", true)

	senior := seedUser(t, users, "senior", true)
	senior.ExperienceLevel = "senior"
	senior.Skills = []string{"Go", "Kubernetes"}
	senior.Location = "Berlin, Germany"
	if err := users.Update(ctx, senior); err != nil {
		t.Fatal(err)
	}

	junior := seedUser(t, users, "junior", true)
	junior.ExperienceLevel = "junior"
	junior.Skills = []string{"Python"}
	junior.Location = "Austin, TX"
	if err := users.Update(ctx, junior); err != nil {
		t.Fatal(err)
	}

	t.Run("experience level exact match", func(t *testing.T) {
		page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{ExperienceLevel: "senior"}, models.NewPageParams(1, 50))
		if err != nil {
			t.Fatalf("GetFeed() error = %v", err)
		}
		ids := feedIDs(page)
		if !ids[senior.ID] || ids[junior.ID] {
			t.Errorf("experience filter returned %v", ids)
		}
	})

	t.Run("skills set membership", func(t *testing.T) {
		page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{Skills: []string{"Go", "Rust"}}, models.NewPageParams(1, 50))
		if err != nil {
			t.Fatalf("GetFeed() error = %v", err)
		}
		ids := feedIDs(page)
		if !ids[senior.ID] || ids[junior.ID] {
			t.Errorf("skills filter returned %v", ids)
		}
	})

	t.Run("location substring case-insensitive", func(t *testing.T) {
		page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{Location: "berlin"}, models.NewPageParams(1, 50))
		if err != nil {
			t.Fatalf("GetFeed() error = %v", err)
		}
		ids := feedIDs(page)
		if !ids[senior.ID] || ids[junior.ID] {
			t.Errorf("location filter returned %v", ids)
		}
	})

	t.Run("combined filters narrow", func(t *testing.T) {
		page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{ExperienceLevel: "junior", Location: "berlin"}, models.NewPageParams(1, 50))
		if err != nil {
			t.Fatalf("GetFeed() error = %v", err)
		}
		if page.Pagination.TotalItems != 0 {
			t.Errorf("TotalItems = %d, want 0", page.Pagination.TotalItems)
		}
	})
}

func TestFeedService_Pagination(t *testing.T) {
	ctx := context.Background()
	users, store := newTestStores()
	feed := NewFeedService(users, store)

	me := seedUser(t, users, "me", true)
	for i := 0; i < 12; i++ {
		seedUser(t, users, "candidate", true)
	}

	page, err := feed.GetFeed(ctx, me.ID, models.FeedFilter{}, models.NewPageParams(2, 5))
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	got := page.Data.([]models.PublicUser)
	if len(got) != 5 {
		t.Errorf("page 2 len = %d, want 5", len(got))
	}
	p := page.Pagination
	if p.TotalItems != 12 || p.TotalPages != 3 || !p.HasNextPage || !p.HasPrevPage {
		t.Errorf("pagination = %+v, want 12 items over 3 pages with next and prev", p)
	}
}
