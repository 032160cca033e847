package repositories

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

func TestCreatePostBumpsAuthorCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")

	post := &models.Post{UserID: author.ID, Text: "hello"}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if got := reloadUser(t, db, author.ID).PostsCount; got != 1 {
		t.Fatalf("posts_count = %d, want 1", got)
	}

	if err := repo.DeletePost(post); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if got := reloadUser(t, db, author.ID).PostsCount; got != 0 {
		t.Fatalf("posts_count after delete = %d, want 0", got)
	}
}

func TestCreatePostStoresChoices(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	post := &models.Post{
		UserID: author.ID,
		Text:   "pick one",
		Choices: []models.Choice{
			{Text: "red"},
			{Text: "blue"},
		},
	}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	loaded, err := repo.GetPostByID(post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if len(loaded.Choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(loaded.Choices))
	}
	for _, choice := range loaded.Choices {
		if choice.PostID != post.ID {
			t.Fatalf("choice %d not bound to post", choice.ID)
		}
	}
}

// A full walk over three pages must visit every post exactly once, even
// when timestamps collide across the page boundary.
func TestGetFeedPostsPageWalk(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	const total = 45
	for i := 0; i < total; i++ {
		// Bucket timestamps so several posts share one, forcing the id
		// tie-break to carry the ordering.
		at := base.Add(time.Duration(i/3) * time.Minute)
		createTestPost(t, db, author.ID, fmt.Sprintf("post %d", i), at)
	}

	seen := map[uint]bool{}
	cursor := uint(0)
	pages := 0
	for {
		page, err := repo.GetFeedPosts([]uint{author.ID}, cursor)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		if len(page) == 0 {
			break
		}
		if len(page) > pagination.PageSize {
			t.Fatalf("page %d holds %d posts", pages, len(page))
		}
		for _, post := range page {
			if seen[post.ID] {
				t.Fatalf("post %d returned twice", post.ID)
			}
			seen[post.ID] = true
		}
		cursor = page[len(page)-1].ID
		pages++
		if pages > 10 {
			t.Fatal("pagination did not terminate")
		}
	}

	if len(seen) != total {
		t.Fatalf("walk visited %d posts, want %d", len(seen), total)
	}
}

func TestGetFeedPostsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	old := createTestPost(t, db, author.ID, "old", base)
	newer := createTestPost(t, db, other.ID, "newer", base.Add(time.Hour))
	excluded := createTestPost(t, db, other.ID, "excluded", base.Add(2*time.Hour))
	_ = excluded

	posts, err := repo.GetFeedPosts([]uint{author.ID, other.ID}, 0)
	if err != nil {
		t.Fatalf("GetFeedPosts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].Text != "excluded" || posts[1].ID != newer.ID || posts[2].ID != old.ID {
		t.Fatal("posts not in reverse-chronological order")
	}

	onlyAuthor, err := repo.GetFeedPosts([]uint{author.ID}, 0)
	if err != nil {
		t.Fatalf("GetFeedPosts single author: %v", err)
	}
	if len(onlyAuthor) != 1 || onlyAuthor[0].ID != old.ID {
		t.Fatal("author filter leaked another user's posts")
	}
}

func TestGetFeedPostsSinceIsStrict(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	t100 := time.Date(2024, 5, 1, 0, 0, 100, 0, time.UTC)
	t200 := time.Date(2024, 5, 1, 0, 0, 200, 0, time.UTC)

	createTestPost(t, db, author.ID, "at 100", t100)
	fresh := createTestPost(t, db, author.ID, "at 200", t200)

	since := time.Date(2024, 5, 1, 0, 0, 150, 0, time.UTC)
	posts, err := repo.GetFeedPostsSince([]uint{author.ID}, since)
	if err != nil {
		t.Fatalf("GetFeedPostsSince: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != fresh.ID {
		t.Fatalf("expected only the post at t=200, got %d posts", len(posts))
	}

	// A refresh from exactly t=200 returns nothing: strictly newer only.
	posts, err = repo.GetFeedPostsSince([]uint{author.ID}, t200)
	if err != nil {
		t.Fatalf("GetFeedPostsSince at boundary: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("boundary refresh returned %d posts, want 0", len(posts))
	}
}

func TestGetImagePosts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	createTestPost(t, db, author.ID, "text only", base)
	withImage := &models.Post{
		UserID:    author.ID,
		Text:      "look",
		ImageURL:  "https://img.example/1.png",
		CreatedAt: base.Add(time.Minute),
	}
	if err := db.Create(withImage).Error; err != nil {
		t.Fatalf("seed image post: %v", err)
	}

	posts, err := repo.GetImagePosts(author.ID, 0)
	if err != nil {
		t.Fatalf("GetImagePosts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != withImage.ID {
		t.Fatalf("expected only the image post, got %d", len(posts))
	}
}

func TestSearchPostsMostLikedFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	cold := createTestPost(t, db, author.ID, "golang tips", base)
	hot := createTestPost(t, db, author.ID, "more golang tips", base.Add(time.Minute))
	createTestPost(t, db, author.ID, "unrelated", base.Add(2*time.Minute))

	if err := db.Model(&models.Post{}).Where("id = ?", hot.ID).
		Update("likes_count", 10).Error; err != nil {
		t.Fatalf("seed likes: %v", err)
	}

	posts, err := repo.SearchPosts("golang", 0)
	if err != nil {
		t.Fatalf("SearchPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(posts))
	}
	if posts[0].ID != hot.ID || posts[1].ID != cold.ID {
		t.Fatal("matches not ordered by like count")
	}
}

func TestGetFeedPostsStaleCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)

	author := createTestUser(t, db, "author")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, db, author.ID, "kept", base)
	doomed := createTestPost(t, db, author.ID, "doomed", base.Add(time.Minute))

	if err := repo.DeletePost(doomed); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	_, err := repo.GetFeedPosts([]uint{author.ID}, doomed.ID)
	if !errors.Is(err, ErrStaleCursor) {
		t.Fatalf("paging past a deleted anchor: got %v, want ErrStaleCursor", err)
	}
}
