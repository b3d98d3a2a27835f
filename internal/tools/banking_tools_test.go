package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dstoyanov/agentbox/internal/banking"
)

// newBankingRegistry spins up a fake OBP server and a registry with the
// banking tools registered against it.
func newBankingRegistry(t *testing.T, handler http.HandlerFunc) *Registry {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/my/logins/direct" {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"token": "tok"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := banking.New(banking.Config{
		BaseURL:     srv.URL,
		Username:    "user",
		Password:    "pass",
		ConsumerKey: "key",
		Timeout:     5 * time.Second,
	}, logger)
	if err != nil {
		t.Fatalf("new banking client: %v", err)
	}

	reg := NewRegistry(logger)
	if err := NewBankingTools(client).Register(reg); err != nil {
		t.Fatalf("register banking tools: %v", err)
	}
	return reg
}

func TestBankingToolsRegistered(t *testing.T) {
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {})
	if got := len(reg.Definitions()); got != 15 {
		t.Fatalf("got %d banking tools, want 15", got)
	}
}

func TestGetBanksTool(t *testing.T) {
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"banks": [{"id": "rbs"}, {"id": "fibank"}]}`))
	})

	var res BanksResult
	call(t, reg, "get_banks", `{}`, &res)
	if !res.Success || res.Count != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCheckAvailableFunds(t *testing.T) {
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balances": [{"currency": "EUR", "amount": "42.50"}]}`))
	})

	var res FundsResult
	call(t, reg, "check_available_funds", `{"bank_id": "b", "account_id": "a"}`, &res)
	if !res.Success || !res.HasFunds || res.Currency != "EUR" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCheckAvailableFundsNegativeBalance(t *testing.T) {
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balances": [{"currency": "EUR", "amount": "-10.00"}]}`))
	})

	var res FundsResult
	call(t, reg, "check_available_funds", `{"bank_id": "b", "account_id": "a"}`, &res)
	if !res.Success || res.HasFunds {
		t.Fatalf("negative balance should report no funds: %+v", res)
	}
}

func TestBankingToolFailureEchoesParams(t *testing.T) {
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "OBP-30001"}`))
	})

	var res TransactionsResult
	call(t, reg, "get_account_transactions", `{"bank_id": "b", "account_id": "a"}`, &res)
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.StatusCode != http.StatusNotFound || res.BankID != "b" || res.AccountID != "a" {
		t.Fatalf("failure did not echo params: %+v", res)
	}
}

func TestCreatePaymentRequestTool(t *testing.T) {
	var captured map[string]any
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "req-1", "status": "INITIATED"}`))
	})

	var res PaymentResult
	call(t, reg, "create_payment_request",
		`{"bank_id": "b", "account_id": "a", "to_account_id": "a2", "amount": "10.00", "currency": "EUR", "description": "rent"}`,
		&res)
	if !res.Success || res.ToAccountID != "a2" || res.Amount != "10.00" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if captured["charge_policy"] != "SHARED" {
		t.Errorf("charge_policy = %v, want SHARED", captured["charge_policy"])
	}

	if _, err := reg.Call(context.Background(), "create_payment_request", json.RawMessage(`{"bank_id": 5}`)); err == nil {
		t.Error("malformed arguments accepted")
	}
}

func TestAddTransactionTagTool(t *testing.T) {
	reg := newBankingRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["value"] != "groceries" {
			t.Errorf("tag body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "tag-1", "value": "groceries"}`))
	})

	var res MetadataResult
	call(t, reg, "add_transaction_tag",
		`{"bank_id": "b", "account_id": "a", "transaction_id": "t1", "tag": "groceries"}`, &res)
	if !res.Success || res.Added != "groceries" || res.TransactionID != "t1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
