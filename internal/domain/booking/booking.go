package booking

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/slot"
)

// MaxOwnerLen bounds the identity string stored with a booking.
const MaxOwnerLen = 100

// Booking is one actor's claim on one slot of one date.
type Booking struct {
	ID        string     `json:"id"`
	Date      civil.Date `json:"date"`
	SlotIndex int        `json:"slot_index"`
	Owner     string     `json:"owner"`
}

// Key identifies a slot cell. At most one Booking exists per Key.
type Key struct {
	Date civil.Date
	Slot int
}

func (b Booking) Key() Key {
	return Key{Date: b.Date, Slot: b.SlotIndex}
}

func (k Key) String() string {
	return k.Date.String() + "#" + slot.Label(k.Slot)
}

// ValidateSlot rejects indexes outside the day.
func ValidateSlot(index int) error {
	if !slot.Valid(index) {
		return &ValidationError{Field: "slot_index", Reason: "out_of_range"}
	}
	return nil
}

// NormalizeOwner trims the owner and checks it is usable as an identity.
func NormalizeOwner(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", &ValidationError{Field: "owner", Reason: "empty"}
	}
	if len(owner) > MaxOwnerLen {
		return "", &ValidationError{Field: "owner", Reason: "too_long"}
	}
	return owner, nil
}

// ValidateDate rejects the zero date and impossible calendar dates.
func ValidateDate(d civil.Date) error {
	if !d.IsValid() {
		return &ValidationError{Field: "date", Reason: "invalid"}
	}
	return nil
}
