// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/pkg/tokenpkg"
	"github.com/mkovtun/minibank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
	Dashboard(ctx context.Context, owner string) (domain.Dashboard, error)
	ResetBalance(ctx context.Context, owner, balance string) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{
		service: as,
	}
}

// Dashboard handles http request for the caller's balance and transaction log.
func (h *Handler) Dashboard(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	dashboard, err := h.service.Dashboard(ctx, authPayload.Email)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusNotFound, web.Msg("Not Found"))

		return
	}

	gctx.JSON(http.StatusOK, dashboard)
}

type resetBalanceRequest struct {
	Email         string `json:"email" binding:"required,email"`
	BalanceAmount string `json:"balanceAmount" binding:"required"`
}

type resetBalanceResponse struct {
	Update string `json:"Update"`
}

// ResetBalance handles http request to overwrite a user's balance and clear
// its transaction log. Test/seeding surface.
func (h *Handler) ResetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req resetBalanceRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	_, err := h.service.ResetBalance(ctx, req.Email, req.BalanceAmount)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound, domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, resetBalanceResponse{Update: "user or balance account not found"})
			return
		}

		gctx.JSON(http.StatusInternalServerError, resetBalanceResponse{Update: "something went wrong with reset balance"})

		return
	}

	gctx.JSON(http.StatusOK, resetBalanceResponse{Update: "Balance updated"})
}
