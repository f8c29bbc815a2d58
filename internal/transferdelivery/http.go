// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/pkg/errorspkg"
	"github.com/mkovtun/minibank/pkg/tokenpkg"
	"github.com/mkovtun/minibank/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, senderEmail, receiverEmail, amount string) (domain.TransferTxResult, error)
}

// Recorder counts transfer outcomes for metrics.
type Recorder interface {
	RecordTransferSuccess()
	RecordTransferFailure()
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
	metrics Recorder
}

// NewHandler returns transfer handler.
func NewHandler(ts Service, mr Recorder) *Handler {
	return &Handler{
		service: ts,
		metrics: mr,
	}
}

type request struct {
	Email  string `json:"email" binding:"required,email"`
	Amount string `json:"amount" binding:"required"`
}

// Create handles http request to transfer an amount from the authenticated
// caller to the account owned by the given email.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	_, err := h.service.Transfer(ctx, authPayload.Email, req.Email, req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		h.metrics.RecordTransferFailure()

		switch err {
		case domain.ErrReceiverNotFound:
			gctx.JSON(http.StatusNotFound, web.Msg("Receiver not found"))

			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Msg("Not Found"))

			return
		case
			domain.ErrInvalidAmount,
			domain.ErrNegativeAmount,
			domain.ErrSelfTransfer,
			domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.metrics.RecordTransferSuccess()

	gctx.JSON(http.StatusOK, web.Msg("Transfer successful"))
}
