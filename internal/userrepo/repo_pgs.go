// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/accountrepo"
	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/pkg/dbpkg"
	"github.com/mkovtun/minibank/pkg/errorspkg"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns user RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns user RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO users (
    email,
    hashed_password,
    full_name,
    phone
) VALUES (
    $1, $2, $3, $4
) RETURNING email, hashed_password, full_name, phone, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Email,
		arg.HashedPassword,
		arg.FullName,
		arg.Phone,
	)

	var u domain.User

	err := row.Scan(
		&u.Email,
		&u.HashedPassword,
		&u.FullName,
		&u.Phone,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				switch pqErr.Constraint {
				case "users_pkey":
					return u, domain.ErrUserAlreadyExists
				case "users_phone_key":
					return u, domain.ErrUserAlreadyExists
				}
			}
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

// CreateWithAccount creates the user together with its account holding the
// initial balance. Both inserts run inside a single transaction so a user
// never exists without a balance record.
func (r *RepoPGS) CreateWithAccount(ctx context.Context, arg domain.CreateUserParams, initialBalance string) (domain.User, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var (
		user    domain.User
		account domain.Account
	)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return user, account, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txUserRepo := NewTxRepoPGS(tx)

	user, err = txUserRepo.Create(ctx, arg)
	if err != nil {
		return user, account, err
	}

	accountRepo := accountrepo.NewTxRepoPGS(tx)

	account, err = accountRepo.Create(ctx, user.Email, initialBalance)
	if err != nil {
		return user, account, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return user, account, errorspkg.ErrInternal
	}

	return user, account, nil
}

const getQuery = `
SELECT
	email,
	hashed_password,
	full_name,
	phone,
	created_at
FROM users
WHERE email = $1
`

// Get returns the user with the given email.
func (r *RepoPGS) Get(ctx context.Context, email string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, email)

	var u domain.User

	err := row.Scan(
		&u.Email,
		&u.HashedPassword,
		&u.FullName,
		&u.Phone,
		&u.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const existsQuery = `
SELECT EXISTS (
	SELECT 1 FROM users WHERE email = $1 OR phone = $2
)
`

// Exists reports whether a user with the given email or phone is registered.
func (r *RepoPGS) Exists(ctx context.Context, email, phone string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	err := r.db.QueryRowContext(ctx, existsQuery, email, phone).Scan(&exists)
	if err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

const deleteQuery = `
DELETE FROM users
WHERE email = $1
`

// Delete removes the user with the given email. The account and its entries
// go with it in the same statement through ON DELETE CASCADE, so a balance
// record is never orphaned.
func (r *RepoPGS) Delete(ctx context.Context, email string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, email)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
