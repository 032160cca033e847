package repositories

import (
	"testing"
	"time"

	"github.com/kyledinardi/odin-book-backend/internal/models"
)

func TestTogglePostLike(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author.ID, "a post", time.Now())

	liked, err := repo.TogglePostLike(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !liked {
		t.Fatal("expected first toggle to like")
	}
	if got := reloadPost(t, db, post.ID).LikesCount; got != 1 {
		t.Fatalf("likes_count = %d, want 1", got)
	}

	has, err := repo.HasUserLikedPost(post.ID, liker.ID)
	if err != nil || !has {
		t.Fatalf("HasUserLikedPost = %v, %v; want true", has, err)
	}

	liked, err = repo.TogglePostLike(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if liked {
		t.Fatal("expected second toggle to unlike")
	}
	if got := reloadPost(t, db, post.ID).LikesCount; got != 0 {
		t.Fatalf("likes_count after unlike = %d, want 0", got)
	}
}

func TestToggleCommentLike(t *testing.T) {
	db := newTestDB(t)
	likeRepo := NewPostgresLikeRepository(db)
	commentRepo := NewPostgresCommentRepository(db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, "a post", time.Now())
	comment := &models.Comment{UserID: author.ID, PostID: post.ID, Text: "nice"}
	if err := commentRepo.CreateRootComment(comment); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	liked, err := likeRepo.ToggleCommentLike(comment.ID, author.ID)
	if err != nil || !liked {
		t.Fatalf("toggle on = %v, %v", liked, err)
	}

	loaded, err := commentRepo.GetCommentByID(comment.ID)
	if err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if loaded.LikesCount != 1 {
		t.Fatalf("likes_count = %d, want 1", loaded.LikesCount)
	}

	liked, err = likeRepo.ToggleCommentLike(comment.ID, author.ID)
	if err != nil || liked {
		t.Fatalf("toggle off = %v, %v", liked, err)
	}
}

func TestGetPostLikerIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)

	author := createTestUser(t, db, "author")
	a := createTestUser(t, db, "a")
	b := createTestUser(t, db, "b")
	post := createTestPost(t, db, author.ID, "a post", time.Now())

	for _, liker := range []uint{a.ID, b.ID} {
		if _, err := repo.TogglePostLike(post.ID, liker); err != nil {
			t.Fatalf("seed like: %v", err)
		}
	}

	ids, err := repo.GetPostLikerIDs(post.ID)
	if err != nil {
		t.Fatalf("GetPostLikerIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 likers, got %d", len(ids))
	}
}
