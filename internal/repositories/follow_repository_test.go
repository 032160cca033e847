package repositories

import (
	"testing"
	"time"

	"github.com/kyledinardi/odin-book-backend/internal/models"
)

func TestToggleFollow(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	following, err := repo.ToggleFollow(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !following {
		t.Fatal("expected first toggle to follow")
	}

	if got := reloadUser(t, db, alice.ID).FollowingCount; got != 1 {
		t.Fatalf("follower's following_count = %d, want 1", got)
	}
	if got := reloadUser(t, db, bob.ID).FollowersCount; got != 1 {
		t.Fatalf("followee's followers_count = %d, want 1", got)
	}

	isFollowing, err := repo.IsFollowing(alice.ID, bob.ID)
	if err != nil || !isFollowing {
		t.Fatalf("IsFollowing = %v, %v; want true", isFollowing, err)
	}

	following, err = repo.ToggleFollow(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if following {
		t.Fatal("expected second toggle to unfollow")
	}

	if got := reloadUser(t, db, alice.ID).FollowingCount; got != 0 {
		t.Fatalf("following_count after unfollow = %d, want 0", got)
	}
	if got := reloadUser(t, db, bob.ID).FollowersCount; got != 0 {
		t.Fatalf("followers_count after unfollow = %d, want 0", got)
	}
}

func TestGetFollowersOrderedByPopularity(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	target := createTestUser(t, db, "target")

	// Three followers with distinct popularity.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	small := createTestUser(t, db, "small")
	medium := createTestUser(t, db, "medium")
	big := createTestUser(t, db, "big")
	for i, u := range []struct {
		id        uint
		followers int
	}{{small.ID, 1}, {medium.ID, 5}, {big.ID, 50}} {
		err := db.Model(&models.User{}).Where("id = ?", u.id).
			Updates(map[string]any{
				"followers_count": u.followers,
				"join_date":       base.Add(time.Duration(i) * time.Hour),
			}).Error
		if err != nil {
			t.Fatalf("seed popularity: %v", err)
		}
	}

	for _, follower := range []uint{small.ID, medium.ID, big.ID} {
		if _, err := repo.ToggleFollow(follower, target.ID); err != nil {
			t.Fatalf("seed follow: %v", err)
		}
	}

	followers, err := repo.GetFollowers(target.ID, 0)
	if err != nil {
		t.Fatalf("GetFollowers: %v", err)
	}
	if len(followers) != 3 {
		t.Fatalf("expected 3 followers, got %d", len(followers))
	}
	if followers[0].ID != big.ID || followers[1].ID != medium.ID || followers[2].ID != small.ID {
		t.Fatalf("unexpected order: %s, %s, %s",
			followers[0].Username, followers[1].Username, followers[2].Username)
	}
}

func TestGetFollowersCursorSkipsAnchor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	target := createTestUser(t, db, "target")
	a := createTestUser(t, db, "a")
	b := createTestUser(t, db, "b")
	for _, follower := range []uint{a.ID, b.ID} {
		if _, err := repo.ToggleFollow(follower, target.ID); err != nil {
			t.Fatalf("seed follow: %v", err)
		}
	}

	first, err := repo.GetFollowers(target.ID, 0)
	if err != nil || len(first) != 2 {
		t.Fatalf("first page: %v, len %d", err, len(first))
	}

	rest, err := repo.GetFollowers(target.ID, first[0].ID)
	if err != nil {
		t.Fatalf("cursor page: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != first[1].ID {
		t.Fatalf("cursor page should hold exactly the remaining follower")
	}
}

func TestGetMutuals(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	me := createTestUser(t, db, "me")
	friend := createTestUser(t, db, "friend")
	fan := createTestUser(t, db, "fan")
	idol := createTestUser(t, db, "idol")

	// friend is mutual; fan only follows me; I only follow idol.
	mustToggle(t, repo, me.ID, friend.ID)
	mustToggle(t, repo, friend.ID, me.ID)
	mustToggle(t, repo, fan.ID, me.ID)
	mustToggle(t, repo, me.ID, idol.ID)

	mutuals, err := repo.GetMutuals(me.ID, 0)
	if err != nil {
		t.Fatalf("GetMutuals: %v", err)
	}
	if len(mutuals) != 1 || mutuals[0].ID != friend.ID {
		t.Fatalf("expected only friend to be mutual, got %d users", len(mutuals))
	}
}

func mustToggle(t *testing.T, repo *PostgresFollowRepository, follower, following uint) {
	t.Helper()
	if _, err := repo.ToggleFollow(follower, following); err != nil {
		t.Fatalf("toggle %d -> %d: %v", follower, following, err)
	}
}
