// Package helpers provides seed functions shared by integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/mkovtun/minibank/internal/accountrepo"
	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/internal/entryrepo"
	"github.com/mkovtun/minibank/internal/userrepo"
	"github.com/mkovtun/minibank/pkg/dbpkg"
	"github.com/mkovtun/minibank/pkg/passpkg"
	"github.com/mkovtun/minibank/pkg/randompkg"
)

// SeedUser creates a random user.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.Name(),
		Phone:          randompkg.Phone(),
	}

	userRepo := userrepo.NewTxRepoPGS(db)

	user, err := userRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedAccount creates an account with the given balance for the owner.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, owner, balance string) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewTxRepoPGS(db)

	account, err := accountRepo.Create(context.Background(), owner, balance)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %v, %v) returned error: %v", owner, balance, err)
	}

	return account
}

// SeedAccountWith1000Balance creates an account with a 1000 balance for the owner.
func SeedAccountWith1000Balance(t *testing.T, db dbpkg.SQLInterface, owner string) domain.Account {
	t.Helper()

	return SeedAccount(t, db, owner, "1000")
}

// SeedEntry creates a log entry with the given signed amount for the account.
func SeedEntry(t *testing.T, db dbpkg.SQLInterface, amount string, accountID int32) domain.Entry {
	t.Helper()

	entryRepo := entryrepo.NewRepoPGS(db)

	entry, err := entryRepo.Create(context.Background(), amount, accountID)
	if err != nil {
		t.Fatalf("entryRepo.Create(context.Background(), %v, %v) returned error: %v", amount, accountID, err)
	}

	return entry
}
