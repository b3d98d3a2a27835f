package banking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{
		BaseURL:     srv.URL,
		Username:    "katja.fi.29@example.com",
		Password:    "secret",
		ConsumerKey: "consumer-key",
		Timeout:     5 * time.Second,
	}, discardLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

// loginThen wraps handler with a DirectLogin endpoint.
func loginThen(t *testing.T, handler http.HandlerFunc) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/my/logins/direct" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "DirectLogin username=") {
				t.Errorf("login authorization header = %q", auth)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"token": "test-token"}`))
			return
		}
		if got := r.Header.Get("Authorization"); got != `DirectLogin token="test-token"` {
			t.Errorf("authorization header = %q", got)
		}
		handler(w, r)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{BaseURL: "http://localhost"}, discardLogger())
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	_, err = New(Config{Username: "u", Password: "p", ConsumerKey: "k"}, discardLogger())
	if err == nil {
		t.Fatal("expected error without base URL")
	}
}

func TestAuthenticateFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid credentials"}`))
	})

	err := client.Authenticate(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
}

func TestBanksLazyAuthentication(t *testing.T) {
	logins := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/my/logins/direct":
			logins++
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"token": "tok"}`))
		case "/obp/v5.1.0/banks":
			w.Write([]byte(`{"banks": [{"id": "rbs"}, {"id": "fibank"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		banks, err := client.Banks(ctx)
		if err != nil {
			t.Fatalf("banks: %v", err)
		}
		if len(banks) != 2 {
			t.Fatalf("got %d banks, want 2", len(banks))
		}
	}
	if logins != 1 {
		t.Errorf("login called %d times, want 1 (token cached)", logins)
	}
}

func TestBanksUnwrappedList(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "a"}]`))
	}))

	banks, err := client.Banks(context.Background())
	if err != nil {
		t.Fatalf("banks: %v", err)
	}
	if len(banks) != 1 {
		t.Fatalf("got %d banks, want 1", len(banks))
	}
}

func TestAccountBalance(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		want := "/obp/v5.1.0/banks/rbs/accounts/acc-1/balances"
		if r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		w.Write([]byte(`{"balances": [{"currency": "GBP", "amount": "1250.00"}]}`))
	}))

	balance, err := client.AccountBalance(context.Background(), "rbs", "acc-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance == nil || balance.Currency != "GBP" || balance.Amount != "1250.00" {
		t.Fatalf("balance = %+v", balance)
	}
}

func TestAccountBalanceEmpty(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balances": []}`))
	}))

	balance, err := client.AccountBalance(context.Background(), "rbs", "acc-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != nil {
		t.Fatalf("balance = %+v, want nil", balance)
	}
}

func TestTransactionsQueryParameters(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "10" || q.Get("offset") != "5" || q.Get("sort_direction") != "ASC" {
			t.Errorf("query = %v", q)
		}
		if q.Get("from_date") != "2025-01-01T00:00:00.000Z" {
			t.Errorf("from_date = %q", q.Get("from_date"))
		}
		w.Write([]byte(`{"transactions": [{"id": "t1"}]}`))
	}))

	txs, err := client.Transactions(context.Background(), TransactionQuery{
		BankID:        "rbs",
		AccountID:     "acc-1",
		Limit:         10,
		Offset:        5,
		SortDirection: "ASC",
		FromDate:      "2025-01-01T00:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
}

func TestTransactionsValidation(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {}))

	_, err := client.Transactions(context.Background(), TransactionQuery{BankID: "rbs"})
	if err == nil {
		t.Error("missing account_id accepted")
	}
	_, err = client.Transactions(context.Background(), TransactionQuery{
		BankID: "rbs", AccountID: "a", SortDirection: "SIDEWAYS",
	})
	if err == nil {
		t.Error("invalid sort direction accepted")
	}
	_, err = client.Transactions(context.Background(), TransactionQuery{
		BankID: "rbs", AccountID: "a", Offset: -1,
	})
	if err == nil {
		t.Error("negative offset accepted")
	}
}

func TestCreateCardSendsPayload(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var card CardRequest
		if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
			t.Fatalf("decode card payload: %v", err)
		}
		if card.CardType != "Credit" || !card.Enabled {
			t.Errorf("card payload = %+v", card)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"card_id": "card-1"}`))
	}))

	result, err := client.CreateCard(context.Background(), "rbs", "acc-1", CardRequest{
		CardType:   "Credit",
		NameOnCard: "Test User",
		Enabled:    true,
		Technology: "chip_and_pin",
		Networks:   []string{"visa"},
		Allows:     []string{"credit", "debit"},
	})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if !strings.Contains(string(result), "card-1") {
		t.Errorf("result = %s", result)
	}
}

func TestCreateTransactionRequest(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		want := "/obp/v5.1.0/banks/rbs/accounts/acc-1/owner/transaction-request-types/ACCOUNT/transaction-requests"
		if r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		var body TransactionRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.To.AccountID != "acc-2" || body.Value.Amount != "10.00" || body.ChargePolicy != "SHARED" {
			t.Errorf("body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "req-1", "status": "COMPLETED"}`))
	}))

	result, err := client.CreateTransactionRequest(context.Background(), "rbs", "acc-1", "owner", "ACCOUNT",
		TransactionRequestBody{
			To:           TransactionRequestTo{AccountID: "acc-2"},
			Value:        Balance{Currency: "EUR", Amount: "10.00"},
			Description:  "rent",
			ChargePolicy: "SHARED",
		})
	if err != nil {
		t.Fatalf("create transaction request: %v", err)
	}
	if !strings.Contains(string(result), "COMPLETED") {
		t.Errorf("result = %s", result)
	}
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "OBP-30001: Bank not found."}`))
	}))

	_, err := client.Banks(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
	if !strings.Contains(string(apiErr.Body), "OBP-30001") {
		t.Errorf("body = %s", apiErr.Body)
	}
}

func TestAccountsHeldByUserFilterValidation(t *testing.T) {
	client := newTestClient(t, loginThen(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("account_type_filter") != "CURRENT" || q.Get("account_type_filter_operation") != "INCLUDE" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"accounts": [{"id": "acc-1"}]}`))
	}))

	_, err := client.AccountsHeldByUser(context.Background(), "user-1", "CURRENT", "BOGUS")
	if err == nil {
		t.Error("invalid filter operation accepted")
	}

	accounts, err := client.AccountsHeldByUser(context.Background(), "user-1", "CURRENT", "INCLUDE")
	if err != nil {
		t.Fatalf("accounts held: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
}
