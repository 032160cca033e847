package models

import "time"

// Message belongs to one room and one author
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoomID    uint      `json:"room_id" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Text      string    `json:"text" gorm:"size:1000"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User User `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Room Room `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// CreateMessageRequest defines the request body for sending a message
type CreateMessageRequest struct {
	Text     string `json:"text" validate:"required_without=ImageURL,omitempty,max=1000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateMessageRequest defines the request body for editing a message
type UpdateMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}
