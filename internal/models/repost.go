package models

import "time"

// Repost content discriminators. A repost references exactly one of a post
// or a comment, never both.
const (
	ContentTypePost    = "post"
	ContentTypeComment = "comment"
)

// Repost is a user resharing a post or a comment into their followers'
// feeds. The two partial unique pairs keep at most one repost per
// (user, content); nullable columns stay out of each other's index.
type Repost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_repost;uniqueIndex:idx_user_comment_repost"`
	PostID    *uint     `json:"post_id,omitempty" gorm:"index;uniqueIndex:idx_user_post_repost"`
	CommentID *uint     `json:"comment_id,omitempty" gorm:"index;uniqueIndex:idx_user_comment_repost"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User    User     `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post    *Post    `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comment *Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
}

// ContentType reports which side of the union is set.
func (r *Repost) ContentType() string {
	if r.CommentID != nil {
		return ContentTypeComment
	}
	return ContentTypePost
}

// CreateRepostRequest defines the request body for the repost toggle
type CreateRepostRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=post comment"`
	ContentID   uint   `json:"content_id" validate:"required"`
}
