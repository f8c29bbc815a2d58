package domain

import "errors"

var (
	// ErrOTPNotFound indicates that no pending code exists for the phone.
	ErrOTPNotFound = errors.New("otp phone not found")
	// ErrWrongOTP indicates that the submitted code does not match.
	ErrWrongOTP = errors.New("wrong otp")
)

// OTPLength is the length of generated one-time registration codes.
const OTPLength = 6
