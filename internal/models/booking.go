package models

import "time"

// Booking is the persisted row. The unique index on (date, slot_index) is
// what makes two concurrent claims on the same slot impossible.
type Booking struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Date      string `gorm:"size:10;not null;uniqueIndex:idx_bookings_slot,priority:1;index" json:"date"`
	SlotIndex int    `gorm:"not null;uniqueIndex:idx_bookings_slot,priority:2" json:"slot_index"`
	Owner     string `gorm:"size:100;not null" json:"owner"`

	CreatedAt time.Time `json:"created_at"`
}
