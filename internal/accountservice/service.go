// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/mkovtun/minibank/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
	ResetBalance(ctx context.Context, balance string, id int32) (domain.Account, error)
}

// EntryLister provides the entry log access needed to assemble a dashboard.
type EntryLister interface {
	List(ctx context.Context, accountID int32) ([]domain.Entry, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo    Repo
	entries EntryLister
}

// New returns account service struct to manage account business logic.
func New(ar Repo, el EntryLister) *Service {
	return &Service{
		repo:    ar,
		entries: el,
	}
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByOwner returns the account owned by the given email.
func (s *Service) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	return s.repo.GetByOwner(ctx, domain.NormalizeEmail(owner))
}

// Dashboard returns the owner's balance together with the ordered signed
// amounts of all log entries.
func (s *Service) Dashboard(ctx context.Context, owner string) (domain.Dashboard, error) {
	var d domain.Dashboard

	account, err := s.repo.GetByOwner(ctx, domain.NormalizeEmail(owner))
	if err != nil {
		return d, err
	}

	entries, err := s.entries.List(ctx, account.ID)
	if err != nil {
		return d, err
	}

	transactions := make([]string, len(entries))
	for i, e := range entries {
		transactions[i] = e.Amount
	}

	d = domain.Dashboard{
		Balance:      account.Balance,
		Transactions: transactions,
	}

	return d, nil
}

// ResetBalance overwrites the balance of the account owned by the given email
// and clears its transaction log.
func (s *Service) ResetBalance(ctx context.Context, owner, balance string) (domain.Account, error) {
	account, err := s.repo.GetByOwner(ctx, domain.NormalizeEmail(owner))
	if err != nil {
		return domain.Account{}, err
	}

	return s.repo.ResetBalance(ctx, balance, account.ID)
}
