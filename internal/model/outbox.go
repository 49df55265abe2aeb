package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Event types published through the outbox.
const (
	EventAccountSignup = "account.signup"
	EventAccountSignin = "account.signin"
)

// OutboxEvent is a pending domain event awaiting publication.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id"`
	EventType   string          `db:"event_type"`
	Payload     json.RawMessage `db:"payload"`
	Status      string          `db:"status"`
	Error       *string         `db:"error"`
	CreatedAt   time.Time       `db:"created_at"`
	ProcessedAt *time.Time      `db:"processed_at"`
}
