package models

import "time"

// Room is a direct-message channel between exactly two users, reached
// through find-or-create rather than explicit creation.
type Room struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	LastUpdated time.Time `json:"last_updated" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`

	// Member pair in normalized order; the unique index serializes
	// concurrent first-time opens of the same conversation.
	UserLowID  uint `json:"-" gorm:"uniqueIndex:idx_room_pair"`
	UserHighID uint `json:"-" gorm:"uniqueIndex:idx_room_pair"`

	Members []RoomMember `json:"members" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// RoomMember ties a user into a room
type RoomMember struct {
	ID     uint `json:"-" gorm:"primaryKey"`
	RoomID uint `json:"room_id" gorm:"index;uniqueIndex:idx_room_user"`
	UserID uint `json:"user_id" gorm:"index;uniqueIndex:idx_room_user"`

	User User `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// FindOrCreateRoomRequest names the other participant
type FindOrCreateRoomRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
