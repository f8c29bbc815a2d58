//go:build integration

package entryrepo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/mkovtun/minibank/internal/entryrepo"
	"github.com/mkovtun/minibank/internal/integrationtest/helpers"
	"github.com/mkovtun/minibank/pkg/configpkg"
	"github.com/mkovtun/minibank/pkg/dbpkg"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	if err := dbpkg.RunMigrations(dbSource); err != nil {
		log.Fatal("cannot run migrations:", err)
	}

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	user := helpers.SeedUser(t, tx)
	account := helpers.SeedAccountWith1000Balance(t, tx, user.Email)
	entryRepo := entryrepo.NewRepoPGS(tx)

	amount := "-250"

	entry, err := entryRepo.Create(context.Background(), amount, account.ID)
	if err != nil {
		t.Fatalf("entryRepo.Create(context.Background(), %v, %v) returned error: %v", amount, account.ID, err)
	}

	if entry.Amount != amount {
		t.Errorf("entry.Amount = %v, want %v", entry.Amount, amount)
	}

	if entry.AccountID != account.ID {
		t.Errorf("entry.AccountID = %v, want %v", entry.AccountID, account.ID)
	}

	if entry.ID == 0 {
		t.Error("entry.ID = 0, want non-zero")
	}

	if entry.CreatedAt.IsZero() {
		t.Error("entry.CreatedAt is zero, want non-zero")
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	user := helpers.SeedUser(t, tx)
	account := helpers.SeedAccountWith1000Balance(t, tx, user.Email)
	entryRepo := entryrepo.NewRepoPGS(tx)

	amounts := []string{"-100", "50", "-25", "200"}
	for _, amount := range amounts {
		helpers.SeedEntry(t, tx, amount, account.ID)
	}

	entries, err := entryRepo.List(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("entryRepo.List(context.Background(), %v) returned error: %v", account.ID, err)
	}

	if len(entries) != len(amounts) {
		t.Fatalf("len(entries) = %v, want %v", len(entries), len(amounts))
	}

	// The log keeps insertion order.
	for i, entry := range entries {
		if entry.Amount != amounts[i] {
			t.Errorf("entries[%d].Amount = %v, want %v", i, entry.Amount, amounts[i])
		}
	}
}

func TestDeleteForAccount(t *testing.T) {
	t.Parallel()

	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	user := helpers.SeedUser(t, tx)
	account := helpers.SeedAccountWith1000Balance(t, tx, user.Email)
	entryRepo := entryrepo.NewRepoPGS(tx)

	helpers.SeedEntry(t, tx, "-100", account.ID)
	helpers.SeedEntry(t, tx, "100", account.ID)

	if err := entryRepo.DeleteForAccount(context.Background(), account.ID); err != nil {
		t.Fatalf("entryRepo.DeleteForAccount(context.Background(), %v) returned error: %v", account.ID, err)
	}

	entries, err := entryRepo.List(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("entryRepo.List(context.Background(), %v) returned error: %v", account.ID, err)
	}

	if len(entries) != 0 {
		t.Errorf("len(entries) = %v, want 0", len(entries))
	}
}
