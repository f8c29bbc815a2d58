//go:build integration

package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mkovtun/minibank/internal/accountrepo"
	"github.com/mkovtun/minibank/internal/domain"
	"github.com/mkovtun/minibank/internal/integrationtest"
	"github.com/mkovtun/minibank/internal/integrationtest/helpers"
	"github.com/mkovtun/minibank/internal/middleware"
	"github.com/mkovtun/minibank/pkg/tokenpkg"
)

func TestCreateTransferAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user1 := helpers.SeedUser(t, server.DB)
	user2 := helpers.SeedUser(t, server.DB)
	account1 := helpers.SeedAccountWith1000Balance(t, server.DB, user1.Email)
	account2 := helpers.SeedAccountWith1000Balance(t, server.DB, user2.Email)
	amount := "100"

	tokenMaker, err := tokenpkg.NewJWTMaker(server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewJWTMaker(%v) returned error: %v", server.Config.TokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := server.Config.AccessTokenDuration

	type requestBody struct {
		Email  string `json:"email"`
		Amount string `json:"amount"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request)
		wantStatusCode int
		wantError      string
		wantMessage    string
	}{
		{
			name: "OK",
			requestBody: requestBody{
				Email:  user2.Email,
				Amount: amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Transfer successful",
		},
		{
			name: "RequiredEmail",
			requestBody: requestBody{
				Email:  "",
				Amount: amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "RequiredAmount",
			requestBody: requestBody{
				Email:  user2.Email,
				Amount: "",
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "InvalidAmount",
			requestBody: requestBody{
				Email:  user2.Email,
				Amount: "one hundred",
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name: "NegativeAmount",
			requestBody: requestBody{
				Email:  user2.Email,
				Amount: "-100",
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrNegativeAmount.Error(),
		},
		{
			name: "SelfTransfer",
			requestBody: requestBody{
				Email:  user1.Email,
				Amount: amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSelfTransfer.Error(),
		},
		{
			name: "InsufficientBalance",
			requestBody: requestBody{
				Email:  user2.Email,
				Amount: "100000",
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInsufficientBalance.Error(),
		},
		{
			name: "ReceiverNotFound",
			requestBody: requestBody{
				Email:  "nobody@email.com",
				Amount: amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, user1.Email, duration)
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "Receiver not found",
		},
		{
			name: "NoAuthorization",
			requestBody: requestBody{
				Email:  user2.Email,
				Amount: amount,
			},
			setupAuth:      func(t *testing.T, r *http.Request) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authorization header is not provided",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {

			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/transfer", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			tc.setupAuth(t, req)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			// Test response
			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			var res struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}

			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantError != "" && res.Error != tc.wantError {
				t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantMessage != "" && res.Message != tc.wantMessage {
				t.Errorf(`res.Message=%q, want %q`, res.Message, tc.wantMessage)
			}
		})
	}

	// The OK case above moved 100 from account1 to account2.
	ctx := context.Background()
	accountRepo := accountrepo.NewRepoPGS(server.DB)

	got1, err := accountRepo.Get(ctx, account1.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", account1.ID, err)
	}
	if got1.Balance != "900" {
		t.Errorf("account1.Balance=%v, want 900", got1.Balance)
	}

	got2, err := accountRepo.Get(ctx, account2.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", account2.ID, err)
	}
	if got2.Balance != "1100" {
		t.Errorf("account2.Balance=%v, want 1100", got2.Balance)
	}
}

// TestConcurrentTransfersAPI debits the same account from concurrent requests.
// Row locks serialize the debits and the balance check stops the run exactly
// when the account is drained, leaving no negative balance behind.
func TestConcurrentTransfersAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	sender := helpers.SeedUser(t, server.DB)
	receiver := helpers.SeedUser(t, server.DB)
	senderAccount := helpers.SeedAccount(t, server.DB, sender.Email, "100")
	helpers.SeedAccountWith1000Balance(t, server.DB, receiver.Email)

	tokenMaker, err := tokenpkg.NewJWTMaker(server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewJWTMaker(%v) returned error: %v", server.Config.TokenSymmetricKey, err)
	}

	const (
		requests = 15
		amount   = "10"
	)

	body, err := json.Marshal(map[string]string{
		"email":  receiver.Email,
		"amount": amount,
	})
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	token, _, err := tokenMaker.CreateToken(sender.Email, server.Config.AccessTokenDuration)
	if err != nil {
		t.Fatalf("tokenMaker.CreateToken(%v) returned error: %v", sender.Email, err)
	}

	codes := make(chan int, requests)

	var wg sync.WaitGroup

	for i := 0; i < requests; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, "/transfer", bytes.NewReader(body))
			if err != nil {
				t.Errorf("Creating request error: %v", err)
				return
			}

			req.Header.Set(middleware.AuthHeaderKey, middleware.AuthTypeBearer+" "+token)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			codes <- w.Code
		}()
	}

	wg.Wait()
	close(codes)

	var succeeded, rejected int

	for code := range codes {
		switch code {
		case http.StatusOK:
			succeeded++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Errorf("Status code: got %v, want %v or %v", code, http.StatusOK, http.StatusBadRequest)
		}
	}

	if succeeded != 10 {
		t.Errorf("succeeded=%v, want 10", succeeded)
	}

	if rejected != 5 {
		t.Errorf("rejected=%v, want 5", rejected)
	}

	got, err := accountrepo.NewRepoPGS(server.DB).Get(nil, senderAccount.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(nil, %v) returned error: %v", senderAccount.ID, err)
	}

	if !decimal.RequireFromString(got.Balance).Equal(decimal.Zero) {
		t.Errorf("sender balance=%v, want 0", got.Balance)
	}
}
