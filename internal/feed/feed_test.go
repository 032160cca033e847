package feed

import (
	"testing"
	"time"

	"github.com/kyledinardi/odin-book-backend/internal/models"
)

func post(id uint, at time.Time) models.Post {
	return models.Post{ID: id, CreatedAt: at}
}

func repost(id uint, at time.Time) models.Repost {
	return models.Repost{ID: id, CreatedAt: at}
}

func TestMergeEmpty(t *testing.T) {
	items := Merge(nil, nil, PageSize)
	if len(items) != 0 {
		t.Fatalf("expected empty merge, got %d items", len(items))
	}

	postCursor, repostCursor := Cursors(items)
	if postCursor != 0 || repostCursor != 0 {
		t.Fatalf("expected zero cursors, got %d/%d", postCursor, repostCursor)
	}
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	posts := []models.Post{
		post(1, base.Add(1*time.Minute)),
		post(2, base.Add(5*time.Minute)),
	}
	reposts := []models.Repost{
		repost(1, base.Add(3*time.Minute)),
		repost(2, base.Add(7*time.Minute)),
	}

	items := Merge(posts, reposts, PageSize)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	for i := 1; i < len(items); i++ {
		if items[i].Timestamp().After(items[i-1].Timestamp()) {
			t.Fatalf("item %d is newer than item %d", i, i-1)
		}
	}

	if items[0].Kind != KindRepost || items[0].Repost.ID != 2 {
		t.Fatalf("expected repost 2 first, got %s %d", items[0].Kind, items[0].id())
	}
	if items[3].Kind != KindPost || items[3].Post.ID != 1 {
		t.Fatalf("expected post 1 last, got %s %d", items[3].Kind, items[3].id())
	}
}

func TestMergeTieBreak(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Same timestamp and same id: the repost wins the tie.
	items := Merge(
		[]models.Post{post(7, at)},
		[]models.Repost{repost(7, at)},
		PageSize,
	)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Kind != KindRepost {
		t.Fatalf("expected repost before post on full tie, got %s", items[0].Kind)
	}

	// Same timestamp, different ids: higher id first.
	items = Merge(
		[]models.Post{post(9, at)},
		[]models.Repost{repost(3, at)},
		PageSize,
	)
	if items[0].Kind != KindPost || items[0].Post.ID != 9 {
		t.Fatalf("expected post 9 first on id tie-break, got %s %d", items[0].Kind, items[0].id())
	}
}

func TestMergeTruncatesToLimit(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var posts []models.Post
	var reposts []models.Repost
	for i := 1; i <= PageSize; i++ {
		posts = append(posts, post(uint(i), base.Add(time.Duration(2*i)*time.Minute)))
		reposts = append(reposts, repost(uint(i), base.Add(time.Duration(2*i+1)*time.Minute)))
	}

	items := Merge(posts, reposts, PageSize)
	if len(items) != PageSize {
		t.Fatalf("expected %d items, got %d", PageSize, len(items))
	}

	// The newest items all come from the tail of each source, so the page
	// must end strictly later than where an unmerged page would.
	oldest := items[len(items)-1].Timestamp()
	if oldest.Before(base.Add(time.Duration(PageSize+1) * time.Minute)) {
		t.Fatalf("truncation kept an item that should have been cut: %v", oldest)
	}
}

func TestCursorsTrackLastOfEachKind(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	items := Merge(
		[]models.Post{post(10, base.Add(4*time.Minute)), post(11, base.Add(3*time.Minute))},
		[]models.Repost{repost(20, base.Add(2*time.Minute))},
		PageSize,
	)

	postCursor, repostCursor := Cursors(items)
	if postCursor != 11 {
		t.Fatalf("expected post cursor 11, got %d", postCursor)
	}
	if repostCursor != 20 {
		t.Fatalf("expected repost cursor 20, got %d", repostCursor)
	}
}

func TestCursorsOnlyOneKindPresent(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	items := Merge([]models.Post{post(5, base)}, nil, PageSize)
	postCursor, repostCursor := Cursors(items)
	if postCursor != 5 || repostCursor != 0 {
		t.Fatalf("expected cursors 5/0, got %d/%d", postCursor, repostCursor)
	}
}
