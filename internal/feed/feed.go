// Package feed merges the two independently paginated feed sources, posts
// and reposts, into one reverse-chronological page. Each source advances
// with its own cursor, so a page request carries a postCursor and a
// repostCursor rather than a single one.
package feed

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// PageSize of the merged page, same as every other list
const PageSize = pagination.PageSize

// Item kinds
const (
	KindPost   = "post"
	KindRepost = "repost"
)

// Item is a closed tagged union of the two feed content types. Consumers
// switch on Kind; exactly one of Post/Repost is set.
type Item struct {
	Kind   string         `json:"kind"`
	Post   *models.Post   `json:"post,omitempty"`
	Repost *models.Repost `json:"repost,omitempty"`
}

// Timestamp is the merge ordering key
func (i Item) Timestamp() time.Time {
	if i.Kind == KindRepost {
		return i.Repost.CreatedAt
	}
	return i.Post.CreatedAt
}

func (i Item) id() uint {
	if i.Kind == KindRepost {
		return i.Repost.ID
	}
	return i.Post.ID
}

// Merge combines one page of posts and one page of reposts into a single
// page of at most limit items, newest first. Ties on timestamp fall back to
// id, then to reposts before posts, so the result is a total order and
// repeated merges of the same input are stable.
func Merge(posts []models.Post, reposts []models.Repost, limit int) []Item {
	items := make([]Item, 0, len(posts)+len(reposts))

	items = append(items, lo.Map(posts, func(p models.Post, _ int) Item {
		post := p
		return Item{Kind: KindPost, Post: &post}
	})...)

	items = append(items, lo.Map(reposts, func(r models.Repost, _ int) Item {
		repost := r
		return Item{Kind: KindRepost, Repost: &repost}
	})...)

	sort.Slice(items, func(a, b int) bool {
		ta, tb := items[a].Timestamp(), items[b].Timestamp()
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		if items[a].id() != items[b].id() {
			return items[a].id() > items[b].id()
		}
		return items[a].Kind == KindRepost && items[b].Kind == KindPost
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Cursors extracts the per-source cursors for the next page: the ids of the
// last post and last repost that made it into the merged page.
func Cursors(items []Item) (postCursor, repostCursor uint) {
	for _, item := range items {
		if item.Kind == KindPost {
			postCursor = item.Post.ID
		} else {
			repostCursor = item.Repost.ID
		}
	}
	return postCursor, repostCursor
}
