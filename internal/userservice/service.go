// Package userservice manages business logic layer of users:
// login, phone OTP registration, and account lifecycle.
package userservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/internal/sms"
	"github.com/mkovtun/minibank/pkg/errorspkg"
	"github.com/mkovtun/minibank/pkg/passpkg"
	"github.com/mkovtun/minibank/pkg/randompkg"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	CreateWithAccount(ctx context.Context, arg domain.CreateUserParams, initialBalance string) (domain.User, domain.Account, error)
	Get(ctx context.Context, email string) (domain.User, error)
	Exists(ctx context.Context, email, phone string) (bool, error)
	Delete(ctx context.Context, email string) error
}

// OTPStore provides storage interface for pending registration codes.
type OTPStore interface {
	Set(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// RegistrationForm is the user-submitted registration data held between the
// OTP send and its validation.
type RegistrationForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Service facilitates user service layer logic.
type Service struct {
	repo           Repo
	otps           OTPStore
	sender         sms.Sender
	otpTTL         time.Duration
	initialBalance string
}

// New returns user service struct to manage user business logic.
func New(ur Repo, os OTPStore, sender sms.Sender, otpTTL time.Duration, initialBalance string) *Service {
	return &Service{
		repo:           ur,
		otps:           os,
		sender:         sender,
		otpTTL:         otpTTL,
		initialBalance: initialBalance,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// StartRegistration checks that the email and phone are free, then issues a
// one-time code for the phone and hands it to the SMS sender.
func (s *Service) StartRegistration(ctx context.Context, email, phone string) error {
	l := zerolog.Ctx(ctx)

	email = domain.NormalizeEmail(email)

	taken, err := s.repo.Exists(ctx, email, phone)
	if err != nil {
		return err
	}

	if taken {
		return domain.ErrUserAlreadyExists
	}

	code := randompkg.OTP(domain.OTPLength)

	if err := s.otps.Set(ctx, phone, code, s.otpTTL); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// VerifyOTP validates the code for the form's phone and, on match, creates
// the user and its account with the initial balance and an empty log.
func (s *Service) VerifyOTP(ctx context.Context, form RegistrationForm, code string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	want, err := s.otps.Get(ctx, form.Phone)
	if err != nil {
		return result, err
	}

	if code != want {
		return result, domain.ErrWrongOTP
	}

	hashedPassword, err := passpkg.Hash(form.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Email:          domain.NormalizeEmail(form.Email),
		HashedPassword: hashedPassword,
		FullName:       form.Name,
		Phone:          form.Phone,
	}

	user, _, err := s.repo.CreateWithAccount(ctx, arg, s.initialBalance)
	if err != nil {
		return result, err
	}

	// The code is spent; the TTL would reap it anyway.
	if err := s.otps.Delete(ctx, form.Phone); err != nil {
		l.Warn().Err(err).Send()
	}

	return NewUserWithoutPassword(user), nil
}

// CheckPassword checks if the password is valid for the given email.
func (s *Service) CheckPassword(ctx context.Context, email, pass string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWithoutPassword

	gotUser, err := s.repo.Get(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return response, err
	}

	err = passpkg.Check(pass, gotUser.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Send()
		return response, domain.ErrWrongPassword
	}

	response = NewUserWithoutPassword(gotUser)

	return response, nil
}

// Get returns the user with the given email without password data.
func (s *Service) Get(ctx context.Context, email string) (domain.UserWithoutPassword, error) {
	gotUser, err := s.repo.Get(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return NewUserWithoutPassword(gotUser), nil
}

// Delete removes the user together with its account and entries.
func (s *Service) Delete(ctx context.Context, email string) error {
	return s.repo.Delete(ctx, domain.NormalizeEmail(email))
}
