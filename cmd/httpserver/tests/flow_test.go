//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mkovtun/minibank/internal/integrationtest"
	"github.com/mkovtun/minibank/internal/otprepo"
)

func doRequest(t *testing.T, method, path, token string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	if token != "" {
		req.Header.Set("authorization", "bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	return w
}

// registerUser walks the full registration flow for the given form data and
// returns once the user and its balance account exist. The one-time code is
// read back from the store the same way the delivering side wrote it.
func registerUser(t *testing.T, name, email, phone, password string) {
	t.Helper()

	w := doRequest(t, http.MethodPost, "/register", "", gin.H{
		"name":     name,
		"email":    email,
		"phone":    phone,
		"password": password,
	})

	if got := w.Code; got != http.StatusCreated {
		t.Fatalf("POST /register status code: got %v, want %v, body %s", got, http.StatusCreated, w.Body.String())
	}

	code, err := otprepo.NewRepoRedis(redisClient).Get(context.Background(), phone)
	if err != nil {
		t.Fatalf("Reading one-time code error: %v", err)
	}

	w = doRequest(t, http.MethodPost, "/register/otp_validator", "", gin.H{
		"formData": gin.H{
			"name":     name,
			"email":    email,
			"phone":    phone,
			"password": password,
		},
		"otp": code,
	})

	if got := w.Code; got != http.StatusCreated {
		t.Fatalf("POST /register/otp_validator status code: got %v, want %v, body %s", got, http.StatusCreated, w.Body.String())
	}
}

func login(t *testing.T, email, password string) string {
	t.Helper()

	w := doRequest(t, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": password,
	})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("POST /login status code: got %v, want %v, body %s", got, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Token     string `json:"token"`
		UserFound string `json:"user_found"`
	}

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if resp.Token == "" {
		t.Fatal(`resp.Token="", want not empty`)
	}

	return resp.Token
}

func dashboard(t *testing.T, token string) (string, []string) {
	t.Helper()

	w := doRequest(t, http.MethodGet, "/dashboard", token, nil)

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("GET /dashboard status code: got %v, want %v, body %s", got, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Balance      string   `json:"Balance"`
		Transactions []string `json:"Transactions"`
	}

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return resp.Balance, resp.Transactions
}

func TestRegistrationAndTransferFlow(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	var (
		senderEmail      = "alice@flow.email"
		senderPassword   = "qwerty"
		senderPhone      = "500000001"
		receiverEmail    = "bob@flow.email"
		receiverPassword = "123456"
		receiverPhone    = "500000002"
	)

	registerUser(t, "Alice Flow", senderEmail, senderPhone, senderPassword)
	registerUser(t, "Bob Flow", receiverEmail, receiverPhone, receiverPassword)

	senderToken := login(t, senderEmail, senderPassword)
	receiverToken := login(t, receiverEmail, receiverPassword)

	t.Run("DuplicateRegistrationRejected", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, "/register", "", gin.H{
			"name":     "Alice Again",
			"email":    senderEmail,
			"phone":    senderPhone,
			"password": senderPassword,
		})

		if got := w.Code; got != http.StatusConflict {
			t.Errorf("Status code: got %v, want %v", got, http.StatusConflict)
		}
	})

	t.Run("AuthenticatedProbe", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/", senderToken, nil)

		if got := w.Code; got != http.StatusOK {
			t.Errorf("Status code: got %v, want %v", got, http.StatusOK)
		}
	})

	t.Run("UnauthenticatedProbe", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/", "", nil)

		if got := w.Code; got != http.StatusUnauthorized {
			t.Errorf("Status code: got %v, want %v", got, http.StatusUnauthorized)
		}
	})

	t.Run("InitialDashboard", func(t *testing.T) {
		balance, transactions := dashboard(t, senderToken)

		if balance != server.Config.InitialBalance {
			t.Errorf("balance=%v, want %v", balance, server.Config.InitialBalance)
		}

		if len(transactions) != 0 {
			t.Errorf("transactions=%v, want empty", transactions)
		}
	})

	t.Run("GetName", func(t *testing.T) {
		w := doRequest(t, http.MethodGet, "/register", senderToken, nil)

		if got := w.Code; got != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", got, http.StatusOK)
		}

		var resp struct {
			Message string `json:"message"`
			Name    string `json:"name"`
		}

		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Decoding response body error: %v", err)
		}

		if resp.Name != "Alice Flow" {
			t.Errorf(`resp.Name=%q, want "Alice Flow"`, resp.Name)
		}
	})

	t.Run("Transfer", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, "/transfer", senderToken, gin.H{
			"email":  receiverEmail,
			"amount": "30",
		})

		if got := w.Code; got != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v, body %s", got, http.StatusOK, w.Body.String())
		}

		balance, transactions := dashboard(t, senderToken)
		if balance != "70" {
			t.Errorf("sender balance=%v, want 70", balance)
		}
		if len(transactions) != 1 || transactions[0] != "-30" {
			t.Errorf("sender transactions=%v, want [-30]", transactions)
		}

		balance, transactions = dashboard(t, receiverToken)
		if balance != "130" {
			t.Errorf("receiver balance=%v, want 130", balance)
		}
		if len(transactions) != 1 || transactions[0] != "30" {
			t.Errorf("receiver transactions=%v, want [30]", transactions)
		}
	})

	t.Run("TransferInsufficientBalance", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, "/transfer", senderToken, gin.H{
			"email":  receiverEmail,
			"amount": "10000",
		})

		if got := w.Code; got != http.StatusBadRequest {
			t.Errorf("Status code: got %v, want %v", got, http.StatusBadRequest)
		}
	})

	t.Run("TransferToUnknownReceiver", func(t *testing.T) {
		w := doRequest(t, http.MethodPost, "/transfer", senderToken, gin.H{
			"email":  "nobody@flow.email",
			"amount": "10",
		})

		if got := w.Code; got != http.StatusNotFound {
			t.Errorf("Status code: got %v, want %v", got, http.StatusNotFound)
		}
	})

	t.Run("ResetBalance", func(t *testing.T) {
		w := doRequest(t, http.MethodPut, "/register/reset_balance", senderToken, gin.H{
			"email":         senderEmail,
			"balanceAmount": server.Config.InitialBalance,
		})

		if got := w.Code; got != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v, body %s", got, http.StatusOK, w.Body.String())
		}

		balance, transactions := dashboard(t, senderToken)
		if balance != server.Config.InitialBalance {
			t.Errorf("balance=%v, want %v", balance, server.Config.InitialBalance)
		}
		if len(transactions) != 0 {
			t.Errorf("transactions=%v, want empty", transactions)
		}
	})

	t.Run("DeleteUser", func(t *testing.T) {
		w := doRequest(t, http.MethodDelete, "/register", "", gin.H{
			"email": receiverEmail,
		})

		if got := w.Code; got != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v, body %s", got, http.StatusOK, w.Body.String())
		}

		w = doRequest(t, http.MethodPost, "/login", "", gin.H{
			"email":    receiverEmail,
			"password": receiverPassword,
		})

		if got := w.Code; got != http.StatusConflict {
			t.Errorf("Login after delete status code: got %v, want %v", got, http.StatusConflict)
		}
	})
}
