package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dstoyanov/agentbox/internal/banking"
)

type BanksResult struct {
	Success    bool              `json:"success"`
	Banks      []json.RawMessage `json:"banks"`
	Count      int               `json:"count"`
	Error      string            `json:"error,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
}

type AccountsResult struct {
	Success    bool              `json:"success"`
	Accounts   []json.RawMessage `json:"accounts"`
	Count      int               `json:"count"`
	UserID     string            `json:"user_id,omitempty"`
	Error      string            `json:"error,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
}

type FundsResult struct {
	Success    bool             `json:"success"`
	HasFunds   bool             `json:"has_funds"`
	Balance    *banking.Balance `json:"balance"`
	Currency   string           `json:"currency,omitempty"`
	Error      string           `json:"error,omitempty"`
	StatusCode int              `json:"status_code,omitempty"`
}

type TransactionsResult struct {
	Success      bool              `json:"success"`
	Transactions []json.RawMessage `json:"transactions"`
	Count        int               `json:"count"`
	BankID       string            `json:"bank_id"`
	AccountID    string            `json:"account_id"`
	Error        string            `json:"error,omitempty"`
	StatusCode   int               `json:"status_code,omitempty"`
}

type RawResult struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	StatusCode int             `json:"status_code,omitempty"`
}

type CardsResult struct {
	Success    bool              `json:"success"`
	Cards      []json.RawMessage `json:"cards"`
	Count      int               `json:"count"`
	Error      string            `json:"error,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
}

type CounterpartiesResult struct {
	Success        bool              `json:"success"`
	Counterparties []json.RawMessage `json:"counterparties"`
	Count          int               `json:"count"`
	BankID         string            `json:"bank_id"`
	AccountID      string            `json:"account_id"`
	Error          string            `json:"error,omitempty"`
	StatusCode     int               `json:"status_code,omitempty"`
}

type MetadataResult struct {
	Success       bool            `json:"success"`
	Result        json.RawMessage `json:"result,omitempty"`
	BankID        string          `json:"bank_id"`
	AccountID     string          `json:"account_id"`
	TransactionID string          `json:"transaction_id"`
	Added         string          `json:"added,omitempty"`
	Error         string          `json:"error,omitempty"`
	StatusCode    int             `json:"status_code,omitempty"`
}

type PaymentResult struct {
	Success            bool            `json:"success"`
	TransactionRequest json.RawMessage `json:"transaction_request,omitempty"`
	BankID             string          `json:"bank_id"`
	AccountID          string          `json:"account_id"`
	ToAccountID        string          `json:"to_account_id"`
	Amount             string          `json:"amount,omitempty"`
	Currency           string          `json:"currency,omitempty"`
	Description        string          `json:"description,omitempty"`
	Error              string          `json:"error,omitempty"`
	StatusCode         int             `json:"status_code,omitempty"`
}

// BankingTools wires Open Bank Project operations into the tool registry.
type BankingTools struct {
	client *banking.Client
}

func NewBankingTools(client *banking.Client) *BankingTools {
	return &BankingTools{client: client}
}

// apiFailure extracts the message and status code from a banking error.
func apiFailure(err error) (string, int) {
	var apiErr *banking.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, apiErr.StatusCode
	}
	return err.Error(), 0
}

// Register adds all banking tools to the registry.
func (b *BankingTools) Register(reg *Registry) error {
	tools := []Tool{
		{
			Definition: Definition{
				Name:        "get_banks",
				Description: "Get the list of available banks.",
				Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
			},
			Handler: b.getBanks,
		},
		{
			Definition: Definition{
				Name:        "accounts_at_bank",
				Description: "Get the accounts at a bank.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"}
					},
					"required": ["bank_id"]
				}`),
			},
			Handler: b.accountsAtBank,
		},
		{
			Definition: Definition{
				Name:        "check_available_funds",
				Description: "Check whether the account has funds by reading its balance.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"}
					},
					"required": ["bank_id", "account_id"]
				}`),
			},
			Handler: b.checkAvailableFunds,
		},
		{
			Definition: Definition{
				Name:        "get_account_transactions",
				Description: "Get transactions for an account, newest first by default.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"},
						"limit": {"type": "integer", "default": 50},
						"offset": {"type": "integer", "default": 0},
						"sort_direction": {"type": "string", "enum": ["ASC", "DESC"], "default": "DESC"},
						"from_date": {"type": "string", "description": "yyyy-MM-dd'T'HH:mm:ss.SSS'Z'"},
						"to_date": {"type": "string", "description": "yyyy-MM-dd'T'HH:mm:ss.SSS'Z'"}
					},
					"required": ["bank_id", "account_id"]
				}`),
			},
			Handler: b.getTransactions,
		},
		{
			Definition: Definition{
				Name:        "get_transaction_details",
				Description: "Get one transaction by ID.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"transaction_id": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"}
					},
					"required": ["bank_id", "account_id", "transaction_id"]
				}`),
			},
			Handler: b.getTransactionDetails,
		},
		{
			Definition: Definition{
				Name:        "get_account_details",
				Description: "Get account details moderated by a view.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"}
					},
					"required": ["bank_id", "account_id"]
				}`),
			},
			Handler: b.getAccountDetails,
		},
		{
			Definition: Definition{
				Name:        "get_account_cards",
				Description: "Get cards attached to an account.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"}
					},
					"required": ["bank_id", "account_id"]
				}`),
			},
			Handler: b.getCards,
		},
		{
			Definition: Definition{
				Name:        "create_card",
				Description: "Create a card for an account.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"card_type": {"type": "string", "default": "Credit"},
						"name_on_card": {"type": "string", "default": "Default User"}
					},
					"required": ["bank_id", "account_id"]
				}`),
			},
			Handler: b.createCard,
		},
		{
			Definition: Definition{
				Name:        "get_accounts_held_by_user",
				Description: "Get accounts held by a user, optionally filtered by account type.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"user_id": {"type": "string"},
						"account_type_filter": {"type": "string"},
						"account_type_filter_operation": {"type": "string", "enum": ["INCLUDE", "EXCLUDE"]}
					},
					"required": ["user_id"]
				}`),
			},
			Handler: b.getAccountsHeldByUser,
		},
		{
			Definition: Definition{
				Name:        "get_current_user",
				Description: "Get the authenticated user's profile.",
				Schema:      json.RawMessage(`{"type": "object", "properties": {}}`),
			},
			Handler: b.getCurrentUser,
		},
		{
			Definition: Definition{
				Name:        "get_user_by_id",
				Description: "Get a user's profile by ID.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"user_id": {"type": "string"}
					},
					"required": ["user_id"]
				}`),
			},
			Handler: b.getUserByID,
		},
		{
			Definition: Definition{
				Name:        "add_transaction_narrative",
				Description: "Add a narrative (description) to a transaction.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"transaction_id": {"type": "string"},
						"narrative": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"}
					},
					"required": ["bank_id", "account_id", "transaction_id", "narrative"]
				}`),
			},
			Handler: b.addNarrative,
		},
		{
			Definition: Definition{
				Name:        "add_transaction_tag",
				Description: "Add a tag to a transaction for categorization.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"transaction_id": {"type": "string"},
						"tag": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"}
					},
					"required": ["bank_id", "account_id", "transaction_id", "tag"]
				}`),
			},
			Handler: b.addTag,
		},
		{
			Definition: Definition{
				Name:        "get_counterparties",
				Description: "Get counterparties the account has transacted with.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"}
					},
					"required": ["bank_id", "account_id"]
				}`),
			},
			Handler: b.getCounterparties,
		},
		{
			Definition: Definition{
				Name:        "create_payment_request",
				Description: "Create a payment request transferring money to another account.",
				Schema: json.RawMessage(`{
					"type": "object",
					"properties": {
						"bank_id": {"type": "string"},
						"account_id": {"type": "string"},
						"to_account_id": {"type": "string"},
						"amount": {"type": "string"},
						"currency": {"type": "string"},
						"description": {"type": "string"},
						"view_id": {"type": "string", "default": "owner"}
					},
					"required": ["bank_id", "account_id", "to_account_id", "amount", "currency"]
				}`),
			},
			Handler: b.createPaymentRequest,
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (b *BankingTools) getBanks(ctx context.Context, _ json.RawMessage) (any, error) {
	banks, err := b.client.Banks(ctx)
	if err != nil {
		msg, code := apiFailure(err)
		return BanksResult{Banks: []json.RawMessage{}, Error: msg, StatusCode: code}, nil
	}
	return BanksResult{Success: true, Banks: banks, Count: len(banks)}, nil
}

func (b *BankingTools) accountsAtBank(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID string `json:"bank_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	accounts, err := b.client.Accounts(ctx, params.BankID)
	if err != nil {
		msg, code := apiFailure(err)
		return AccountsResult{Accounts: []json.RawMessage{}, Error: msg, StatusCode: code}, nil
	}
	return AccountsResult{Success: true, Accounts: accounts, Count: len(accounts)}, nil
}

func (b *BankingTools) checkAvailableFunds(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID    string `json:"bank_id"`
		AccountID string `json:"account_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	balance, err := b.client.AccountBalance(ctx, params.BankID, params.AccountID)
	if err != nil {
		msg, code := apiFailure(err)
		return FundsResult{Error: msg, StatusCode: code}, nil
	}
	if balance == nil {
		return FundsResult{Error: "Could not retrieve balance"}, nil
	}

	amount, err := strconv.ParseFloat(balance.Amount, 64)
	if err != nil {
		return FundsResult{Balance: balance, Error: fmt.Sprintf("unparseable balance amount %q", balance.Amount)}, nil
	}
	return FundsResult{
		Success:  true,
		HasFunds: amount > 0,
		Balance:  balance,
		Currency: balance.Currency,
	}, nil
}

func (b *BankingTools) getTransactions(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID        string `json:"bank_id"`
		AccountID     string `json:"account_id"`
		ViewID        string `json:"view_id"`
		Limit         int    `json:"limit"`
		Offset        int    `json:"offset"`
		SortDirection string `json:"sort_direction"`
		FromDate      string `json:"from_date"`
		ToDate        string `json:"to_date"`
	}{Limit: 50}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	txs, err := b.client.Transactions(ctx, banking.TransactionQuery{
		BankID:        params.BankID,
		AccountID:     params.AccountID,
		ViewID:        params.ViewID,
		Limit:         params.Limit,
		Offset:        params.Offset,
		SortDirection: params.SortDirection,
		FromDate:      params.FromDate,
		ToDate:        params.ToDate,
	})
	if err != nil {
		msg, code := apiFailure(err)
		return TransactionsResult{
			Transactions: []json.RawMessage{},
			BankID:       params.BankID,
			AccountID:    params.AccountID,
			Error:        msg,
			StatusCode:   code,
		}, nil
	}
	return TransactionsResult{
		Success:      true,
		Transactions: txs,
		Count:        len(txs),
		BankID:       params.BankID,
		AccountID:    params.AccountID,
	}, nil
}

func (b *BankingTools) getTransactionDetails(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID        string `json:"bank_id"`
		AccountID     string `json:"account_id"`
		TransactionID string `json:"transaction_id"`
		ViewID        string `json:"view_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	tx, err := b.client.Transaction(ctx, params.BankID, params.AccountID, params.TransactionID, params.ViewID)
	if err != nil {
		msg, code := apiFailure(err)
		return RawResult{Error: msg, StatusCode: code}, nil
	}
	return RawResult{Success: true, Data: tx}, nil
}

func (b *BankingTools) getAccountDetails(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID    string `json:"bank_id"`
		AccountID string `json:"account_id"`
		ViewID    string `json:"view_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	account, err := b.client.Account(ctx, params.BankID, params.AccountID, params.ViewID)
	if err != nil {
		msg, code := apiFailure(err)
		return RawResult{Error: msg, StatusCode: code}, nil
	}
	return RawResult{Success: true, Data: account}, nil
}

func (b *BankingTools) getCards(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID    string `json:"bank_id"`
		AccountID string `json:"account_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	cards, err := b.client.Cards(ctx, params.BankID, params.AccountID)
	if err != nil {
		msg, code := apiFailure(err)
		return CardsResult{Cards: []json.RawMessage{}, Error: msg, StatusCode: code}, nil
	}
	return CardsResult{Success: true, Cards: cards, Count: len(cards)}, nil
}

func (b *BankingTools) createCard(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID     string `json:"bank_id"`
		AccountID  string `json:"account_id"`
		CardType   string `json:"card_type"`
		NameOnCard string `json:"name_on_card"`
	}{CardType: "Credit", NameOnCard: "Default User"}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	now := time.Now()
	card, err := b.client.CreateCard(ctx, params.BankID, params.AccountID, banking.CardRequest{
		CardType:      params.CardType,
		NameOnCard:    params.NameOnCard,
		IssueNumber:   "1",
		SerialNumber:  strconv.FormatInt(now.Unix(), 10),
		ValidFromDate: now.UTC().Format("2006-01-02T15:04:05") + "Z",
		ExpiresDate:   "2030-12-31T23:59:59Z",
		Enabled:       true,
		Technology:    "chip_and_pin",
		Networks:      []string{"visa"},
		Allows:        []string{"credit", "debit"},
	})
	if err != nil {
		msg, code := apiFailure(err)
		return RawResult{Error: msg, StatusCode: code}, nil
	}
	return RawResult{Success: true, Data: card}, nil
}

func (b *BankingTools) getAccountsHeldByUser(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		UserID          string `json:"user_id"`
		TypeFilter      string `json:"account_type_filter"`
		FilterOperation string `json:"account_type_filter_operation"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	accounts, err := b.client.AccountsHeldByUser(ctx, params.UserID, params.TypeFilter, params.FilterOperation)
	if err != nil {
		msg, code := apiFailure(err)
		return AccountsResult{
			Accounts:   []json.RawMessage{},
			UserID:     params.UserID,
			Error:      msg,
			StatusCode: code,
		}, nil
	}
	return AccountsResult{
		Success:  true,
		Accounts: accounts,
		Count:    len(accounts),
		UserID:   params.UserID,
	}, nil
}

func (b *BankingTools) getCurrentUser(ctx context.Context, _ json.RawMessage) (any, error) {
	user, err := b.client.CurrentUser(ctx)
	if err != nil {
		msg, code := apiFailure(err)
		return RawResult{Error: msg, StatusCode: code}, nil
	}
	return RawResult{Success: true, Data: user}, nil
}

func (b *BankingTools) getUserByID(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		UserID string `json:"user_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	user, err := b.client.User(ctx, params.UserID)
	if err != nil {
		msg, code := apiFailure(err)
		return RawResult{Error: msg, StatusCode: code}, nil
	}
	return RawResult{Success: true, Data: user}, nil
}

func (b *BankingTools) addNarrative(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID        string `json:"bank_id"`
		AccountID     string `json:"account_id"`
		TransactionID string `json:"transaction_id"`
		Narrative     string `json:"narrative"`
		ViewID        string `json:"view_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	result, err := b.client.AddTransactionNarrative(ctx,
		params.BankID, params.AccountID, params.TransactionID, params.Narrative, params.ViewID)
	if err != nil {
		msg, code := apiFailure(err)
		return MetadataResult{
			BankID:        params.BankID,
			AccountID:     params.AccountID,
			TransactionID: params.TransactionID,
			Error:         msg,
			StatusCode:    code,
		}, nil
	}
	return MetadataResult{
		Success:       true,
		Result:        result,
		BankID:        params.BankID,
		AccountID:     params.AccountID,
		TransactionID: params.TransactionID,
		Added:         params.Narrative,
	}, nil
}

func (b *BankingTools) addTag(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID        string `json:"bank_id"`
		AccountID     string `json:"account_id"`
		TransactionID string `json:"transaction_id"`
		Tag           string `json:"tag"`
		ViewID        string `json:"view_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	result, err := b.client.AddTransactionTag(ctx,
		params.BankID, params.AccountID, params.TransactionID, params.Tag, params.ViewID)
	if err != nil {
		msg, code := apiFailure(err)
		return MetadataResult{
			BankID:        params.BankID,
			AccountID:     params.AccountID,
			TransactionID: params.TransactionID,
			Error:         msg,
			StatusCode:    code,
		}, nil
	}
	return MetadataResult{
		Success:       true,
		Result:        result,
		BankID:        params.BankID,
		AccountID:     params.AccountID,
		TransactionID: params.TransactionID,
		Added:         params.Tag,
	}, nil
}

func (b *BankingTools) getCounterparties(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID    string `json:"bank_id"`
		AccountID string `json:"account_id"`
		ViewID    string `json:"view_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	counterparties, err := b.client.Counterparties(ctx, params.BankID, params.AccountID, params.ViewID)
	if err != nil {
		msg, code := apiFailure(err)
		return CounterpartiesResult{
			Counterparties: []json.RawMessage{},
			BankID:         params.BankID,
			AccountID:      params.AccountID,
			Error:          msg,
			StatusCode:     code,
		}, nil
	}
	return CounterpartiesResult{
		Success:        true,
		Counterparties: counterparties,
		Count:          len(counterparties),
		BankID:         params.BankID,
		AccountID:      params.AccountID,
	}, nil
}

func (b *BankingTools) createPaymentRequest(ctx context.Context, args json.RawMessage) (any, error) {
	params := struct {
		BankID      string `json:"bank_id"`
		AccountID   string `json:"account_id"`
		ToAccountID string `json:"to_account_id"`
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
		ViewID      string `json:"view_id"`
	}{}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	result, err := b.client.CreateTransactionRequest(ctx,
		params.BankID, params.AccountID, params.ViewID, "ACCOUNT",
		banking.TransactionRequestBody{
			To:           banking.TransactionRequestTo{AccountID: params.ToAccountID},
			Value:        banking.Balance{Currency: params.Currency, Amount: params.Amount},
			Description:  params.Description,
			ChargePolicy: "SHARED",
		})
	if err != nil {
		msg, code := apiFailure(err)
		return PaymentResult{
			BankID:      params.BankID,
			AccountID:   params.AccountID,
			ToAccountID: params.ToAccountID,
			Error:       msg,
			StatusCode:  code,
		}, nil
	}
	return PaymentResult{
		Success:            true,
		TransactionRequest: result,
		BankID:             params.BankID,
		AccountID:          params.AccountID,
		ToAccountID:        params.ToAccountID,
		Amount:             params.Amount,
		Currency:           params.Currency,
		Description:        params.Description,
	}, nil
}
