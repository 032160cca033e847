package models

import "time"

// Post is an original piece of content. Text may be empty when the post
// carries an image or a poll instead.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Text      string    `json:"text" gorm:"size:1000"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	LikesCount    int `json:"likes_count" gorm:"default:0;index"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`
	RepostsCount  int `json:"reposts_count" gorm:"default:0"`

	User    User     `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// Choice is one option of a post's poll. A post with choices is a poll post.
type Choice struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	PostID uint   `json:"post_id" gorm:"index"`
	Text   string `json:"text" gorm:"size:100"`

	Votes []ChoiceVote `json:"votes,omitempty" gorm:"foreignKey:ChoiceID;constraint:OnDelete:CASCADE"`
}

// ChoiceVote records a user's vote for a poll choice. The unique index makes
// concurrent double-votes on the same choice impossible; the sibling-choice
// scan in the repository covers the rest of the poll.
type ChoiceVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChoiceID  uint      `json:"choice_id" gorm:"index;uniqueIndex:idx_choice_user_vote"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_choice_user_vote"`
	CreatedAt time.Time `json:"created_at"`
}

// PostLike is a like on a post
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post.
// At least one of Text, ImageURL, or PollChoices must be present; a poll
// needs 2 to 6 non-empty choices.
type CreatePostRequest struct {
	Text        string   `json:"text" validate:"omitempty,max=1000"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
	PollChoices []string `json:"poll_choices,omitempty" validate:"omitempty,min=2,max=6,dive,required,max=100"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}
