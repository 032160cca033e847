// Package pagination implements the keyset cursor contract shared by every
// list endpoint: pages of at most PageSize items, a cursor naming the last
// item already seen, and the next page strictly after it in the configured
// ordering. Ties on the primary key are always broken by id so consecutive
// pages neither skip nor repeat rows, which offset pagination cannot
// guarantee under concurrent inserts.
package pagination

import (
	"time"

	"gorm.io/gorm"
)

// PageSize is the fixed page length. Not client-configurable.
const PageSize = 20

// TimeDesc orders newest-first with id as tie-break
func TimeDesc(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " DESC, id DESC").Limit(PageSize)
	}
}

// TimeAsc orders oldest-first with id as tie-break, used for chat history
func TimeAsc(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " ASC, id ASC").Limit(PageSize)
	}
}

// AfterDesc scopes a TimeDesc query to rows strictly after the anchor row,
// excluding the anchor itself. Row-value comparison keeps the ordering
// total when timestamps collide.
func AfterDesc(column string, anchorTime time.Time, anchorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+column+", id) < (?, ?)", anchorTime, anchorID)
	}
}

// AfterAsc is AfterDesc for ascending orderings
func AfterAsc(column string, anchorTime time.Time, anchorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+column+", id) > (?, ?)", anchorTime, anchorID)
	}
}

// Since is the refresh mode: everything strictly newer than a timestamp,
// newest first, capped at PageSize.
func Since(column string, ts time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" > ?", ts).Order(column + " DESC, id DESC").Limit(PageSize)
	}
}

// PopularityDesc orders user lists by follower count descending, then join
// date ascending, then id, matching the documented tie-break chain.
func PopularityDesc() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("followers_count DESC, join_date ASC, id ASC").Limit(PageSize)
	}
}

// AfterPopularity scopes a PopularityDesc query past the anchor user. The
// ordering mixes directions, so the keyset is spelled out per level.
func AfterPopularity(followers int, joinDate time.Time, id uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"followers_count < ? OR (followers_count = ? AND (join_date, id) > (?, ?))",
			followers, followers, joinDate, id,
		)
	}
}

// LikesDesc orders search results by like count descending, then creation
// time ascending, then id.
func LikesDesc() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("likes_count DESC, created_at ASC, id ASC").Limit(PageSize)
	}
}

// AfterLikes scopes a LikesDesc query past the anchor post
func AfterLikes(likes int, createdAt time.Time, id uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"likes_count < ? OR (likes_count = ? AND (created_at, id) > (?, ?))",
			likes, likes, createdAt, id,
		)
	}
}
