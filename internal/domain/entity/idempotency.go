package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores the response of a processed checkout so a repeated
// submission with the same key replays it instead of creating a second order.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idem_user_key;size:255;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idem_user_key"`
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// SameRequest reports whether a replay targets the same endpoint with the same body.
func (i *IdempotencyKey) SameRequest(endpoint, requestHash string) bool {
	return i.Endpoint == endpoint && (i.RequestHash == "" || i.RequestHash == requestHash)
}
