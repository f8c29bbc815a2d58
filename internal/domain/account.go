package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the owner already has an account.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
)

// Account holds one user's balance. The owner is the user's email,
// which doubles as the external lookup key for transfers.
type Account struct {
	ID        int32     `json:"id"`
	Owner     string    `json:"owner"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard is the account view returned to the authenticated owner:
// current balance plus the ordered signed amounts of all entries.
type Dashboard struct {
	Balance      string   `json:"Balance"`
	Transactions []string `json:"Transactions"`
}
