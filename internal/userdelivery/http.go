// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/internal/userservice"
	"github.com/mkovtun/minibank/pkg/errorspkg"
	"github.com/mkovtun/minibank/pkg/tokenpkg"
	"github.com/mkovtun/minibank/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	CheckPassword(ctx context.Context, email, password string) (domain.UserWithoutPassword, error)
	StartRegistration(ctx context.Context, email, phone string) error
	VerifyOTP(ctx context.Context, form userservice.RegistrationForm, code string) (domain.UserWithoutPassword, error)
	Get(ctx context.Context, email string) (domain.UserWithoutPassword, error)
	Delete(ctx context.Context, email string) error
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service       Service
	tokenMaker    tokenpkg.Maker
	tokenDuration time.Duration
}

// NewHandler returns user handler.
func NewHandler(us Service, tm tokenpkg.Maker, tokenDuration time.Duration) *Handler {
	return &Handler{
		service:       us,
		tokenMaker:    tm,
		tokenDuration: tokenDuration,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	UserFound string `json:"user_found"`
}

// Login handles http login request and issues a time-bounded bearer token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	user, err := h.service.CheckPassword(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusConflict, web.Msg("Invalid Email or Password"))
			return
		case domain.ErrWrongPassword:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	token, _, err := h.tokenMaker.CreateToken(user.Email, h.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, loginResponse{Token: token, UserFound: "user found"})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,phone"`
	Password string `json:"password" binding:"required,min=6"`
}

type registerResponse struct {
	ValidUser string `json:"validUser"`
}

// Register handles http request to start registration: it checks
// availability and sends an OTP to the submitted phone.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if err := h.service.StartRegistration(ctx, req.Email, req.Phone); err != nil {
		switch err {
		case domain.ErrUserAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, registerResponse{ValidUser: "user is valid"})
}

type validateOTPRequest struct {
	FormData userservice.RegistrationForm `json:"formData" binding:"required"`
	OTP      string                       `json:"otp" binding:"required"`
}

type validateOTPResponse struct {
	OTPSuccess string `json:"OtpSuccess"`
}

// ValidateOTP handles http request to finish registration: on code match it
// creates the user together with its account and initial balance.
func (h *Handler) ValidateOTP(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req validateOTPRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	_, err := h.service.VerifyOTP(ctx, req.FormData, req.OTP)
	if err != nil {
		switch err {
		case domain.ErrOTPNotFound:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		case domain.ErrWrongOTP:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		case domain.ErrUserAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, validateOTPResponse{OTPSuccess: "Otp Success validation"})
}

type getNameResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// GetName handles http request for the authenticated caller's display name.
func (h *Handler) GetName(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	user, err := h.service.Get(ctx, authPayload.Email)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Msg("User not found"))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, getNameResponse{Message: "get data successfully", Name: user.FullName})
}

type deleteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type deleteResponse struct {
	UserDelete string `json:"UserDelete"`
}

// Delete handles http request to remove a user and its account together.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req deleteRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if err := h.service.Delete(ctx, req.Email); err != nil {
		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, deleteResponse{UserDelete: "user not found"})
			return
		}

		gctx.JSON(http.StatusInternalServerError, deleteResponse{UserDelete: "something went wrong with delete user"})

		return
	}

	gctx.JSON(http.StatusOK, deleteResponse{UserDelete: "user and balance delete was successful"})
}
