package models

import "time"

// Comment belongs to a post. A nil ParentID marks a root comment; replies
// point at their parent and still carry the root post's ID, however deep
// the thread goes. Deleting a comment cascades to its reply subtree.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"index"`
	Text      string    `json:"text" gorm:"size:1000"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	LikesCount   int `json:"likes_count" gorm:"default:0"`
	RepliesCount int `json:"replies_count" gorm:"default:0"`

	User    User      `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Parent  *Comment  `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Replies []Comment `json:"-" gorm:"foreignKey:ParentID"`
}

// CommentLike is a like on a comment
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for root comments and replies
type CreateCommentRequest struct {
	Text     string `json:"text" validate:"required_without=ImageURL,omitempty,max=1000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}
