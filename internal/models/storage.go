package models

import "time"

// StorageSlot is one named slot in the key/value storage table. The profile
// collection lives in a single slot as a JSON-encoded array.
type StorageSlot struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string
	UpdatedAt time.Time
}
