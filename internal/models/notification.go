package models

import "time"

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationFollow  = "follow"
	NotificationRepost  = "repost"
)

// Notification is created synchronously by the action that triggers it.
// Self-actions never produce one.
type Notification struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Type         string    `json:"type" gorm:"size:20;index"`
	SourceUserID uint      `json:"source_user_id" gorm:"index"`
	TargetUserID uint      `json:"target_user_id" gorm:"index"`
	PostID       *uint     `json:"post_id,omitempty"`
	CommentID    *uint     `json:"comment_id,omitempty"`
	IsRead       bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`

	SourceUser User `json:"source_user" gorm:"foreignKey:SourceUserID;constraint:OnDelete:CASCADE"`
}
