package domain

import "time"

// Entry holds balance change data for an account.
// Positive amounts are credits, negative amounts are debits.
type Entry struct {
	ID        int64
	AccountID int32
	Amount    string
	CreatedAt time.Time
}
