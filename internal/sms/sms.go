// Package sms defines the outbound SMS interface used for registration codes.
package sms

import (
	"context"

	"github.com/rs/zerolog"
)

// Sender delivers a one-time code to a phone number. Real delivery (Twilio
// and the like) lives behind this interface; the service never depends on a
// concrete provider.
//
//go:generate mockgen -source sms.go -destination sms_mock.go -package sms
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes the code to the log instead of sending it.
// Used in development and tests.
type LogSender struct{}

// NewLogSender returns a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the code for the phone.
func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	zerolog.Ctx(ctx).Info().Str("phone", phone).Str("otp", code).Msg("registration code issued")
	return nil
}
