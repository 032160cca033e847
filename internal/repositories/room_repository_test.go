package repositories

import (
	"testing"
	"time"

	"github.com/kyledinardi/odin-book-backend/internal/models"
)

func TestFindOrCreateRoomIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRoomRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	room, err := repo.FindOrCreateRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(room.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(room.Members))
	}

	// Same pair, either order, resolves to the same room.
	again, err := repo.FindOrCreateRoom(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.ID != room.ID {
		t.Fatalf("got room %d, want %d", again.ID, room.ID)
	}

	var count int64
	if err := db.Model(&models.Room{}).Count(&count).Error; err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 room, found %d", count)
	}
}

func TestGetRoomsForUserOrderedByActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRoomRepository(db)

	me := createTestUser(t, db, "me")
	first := createTestUser(t, db, "first")
	second := createTestUser(t, db, "second")
	stranger := createTestUser(t, db, "stranger")
	other := createTestUser(t, db, "other")

	roomA, err := repo.FindOrCreateRoom(me.ID, first.ID)
	if err != nil {
		t.Fatalf("room a: %v", err)
	}
	roomB, err := repo.FindOrCreateRoom(me.ID, second.ID)
	if err != nil {
		t.Fatalf("room b: %v", err)
	}
	if _, err := repo.FindOrCreateRoom(stranger.ID, other.ID); err != nil {
		t.Fatalf("unrelated room: %v", err)
	}

	// roomA becomes the most recently active.
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Touch(roomB.ID, base); err != nil {
		t.Fatalf("touch b: %v", err)
	}
	if err := repo.Touch(roomA.ID, base.Add(time.Hour)); err != nil {
		t.Fatalf("touch a: %v", err)
	}

	rooms, err := repo.GetRoomsForUser(me.ID, 0)
	if err != nil {
		t.Fatalf("GetRoomsForUser: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != roomA.ID || rooms[1].ID != roomB.ID {
		t.Fatal("rooms not ordered by last activity")
	}
}

func TestIsMember(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRoomRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	eve := createTestUser(t, db, "eve")

	room, err := repo.FindOrCreateRoom(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	member, err := repo.IsMember(room.ID, alice.ID)
	if err != nil || !member {
		t.Fatalf("IsMember(alice) = %v, %v; want true", member, err)
	}
	member, err = repo.IsMember(room.ID, eve.ID)
	if err != nil || member {
		t.Fatalf("IsMember(eve) = %v, %v; want false", member, err)
	}
}

func TestRoomPairIsNormalizedAndUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRoomRepository(db)

	a := createTestUser(t, db, "a")
	b := createTestUser(t, db, "b")

	room, err := repo.FindOrCreateRoom(b.ID, a.ID)
	if err != nil {
		t.Fatalf("FindOrCreateRoom: %v", err)
	}
	if room.UserLowID != a.ID || room.UserHighID != b.ID {
		t.Fatalf("pair = (%d, %d), want (%d, %d)", room.UserLowID, room.UserHighID, a.ID, b.ID)
	}

	// A second row for the same pair must hit the unique index, so two
	// concurrent first-time opens cannot both create a room.
	dup := models.Room{UserLowID: a.ID, UserHighID: b.ID, LastUpdated: time.Now()}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("duplicate room pair inserted, want unique index violation")
	}
}
