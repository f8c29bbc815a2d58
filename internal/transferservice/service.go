// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkovtun/minibank/internal/accountdelivery"
	"github.com/mkovtun/minibank/internal/domain"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
	}
}

// Transfer validates the request against the sender's state and moves the
// amount from the sender account to the account owned by receiverEmail.
//
// Both accounts are borrowed for the duration of this call only; all state
// lives in the store.
func (s *Service) Transfer(ctx context.Context, senderEmail, receiverEmail, amount string) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return result, domain.ErrNegativeAmount
	}

	receiverEmail = domain.NormalizeEmail(receiverEmail)

	if receiverEmail == senderEmail {
		return result, domain.ErrSelfTransfer
	}

	sender, err := s.accountService.GetByOwner(ctx, senderEmail)
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	senderBalance, err := decimal.NewFromString(sender.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, err
	}

	if senderBalance.LessThan(amountDecimal) {
		return result, domain.ErrInsufficientBalance
	}

	receiver, err := s.accountService.GetByOwner(ctx, receiverEmail)
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrAccountNotFound) {
			return result, domain.ErrReceiverNotFound
		}

		return result, err
	}

	arg := domain.CreateTransferParams{
		FromAccountID: sender.ID,
		ToAccountID:   receiver.ID,
		Amount:        amountDecimal.String(),
	}

	return s.repo.Transfer(ctx, arg)
}
