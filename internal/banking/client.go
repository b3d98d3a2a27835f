// Package banking is a client for the Open Bank Project REST API using
// DirectLogin authentication. Responses are passed through as raw JSON so
// callers can hand them to the model unmodified.
package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const apiVersion = "obp/v5.1.0"

// Config for the Open Bank Project client.
type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	ConsumerKey string        `mapstructure:"consumer_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// APIError is a failed API call. StatusCode is zero for transport errors.
type APIError struct {
	Message    string
	StatusCode int
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Client talks to one Open Bank Project deployment. The DirectLogin token is
// obtained lazily on the first call and cached; Authenticate can be used to
// fetch it eagerly.
type Client struct {
	baseURL     string
	username    string
	password    string
	consumerKey string
	httpClient  *http.Client
	logger      *slog.Logger

	mu    sync.Mutex
	token string
}

func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("banking: base URL is required")
	}
	if cfg.Username == "" || cfg.Password == "" || cfg.ConsumerKey == "" {
		return nil, fmt.Errorf("banking: username, password and consumer key are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		username:    cfg.Username,
		password:    cfg.Password,
		consumerKey: cfg.ConsumerKey,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With("component", "banking"),
	}, nil
}

// Authenticate obtains a DirectLogin token and caches it for later calls.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/my/logins/direct", nil)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("build login request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization",
		fmt.Sprintf(`DirectLogin username=%q, password=%q, consumer_key=%q`,
			c.username, c.password, c.consumerKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("authentication request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return &APIError{
			Message:    fmt.Sprintf("authentication failed: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &loginResp); err != nil || loginResp.Token == "" {
		return &APIError{Message: "no token found in login response", StatusCode: resp.StatusCode, Body: body}
	}

	c.mu.Lock()
	c.token = loginResp.Token
	c.mu.Unlock()
	c.logger.Info("authenticated with Open Bank Project")
	return nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	token = c.token
	c.mu.Unlock()
	return token, nil
}

// do performs an authenticated request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (json.RawMessage, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode request body: %v", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("DirectLogin token=%q", token))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			Message:    fmt.Sprintf("API request failed: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}
	return body, nil
}

// listField extracts a JSON array from a response that is either the array
// itself or an object wrapping it under key.
func listField(data json.RawMessage, key string) ([]json.RawMessage, error) {
	var direct []json.RawMessage
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	raw, ok := wrapped[key]
	if !ok {
		return []json.RawMessage{}, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode %s list: %v", key, err)}
	}
	return list, nil
}

// Banks lists the banks available on the deployment.
func (c *Client) Banks(ctx context.Context) ([]json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/"+apiVersion+"/banks", nil, nil)
	if err != nil {
		return nil, err
	}
	return listField(data, "banks")
}

// Accounts lists accounts at one bank.
func (c *Client) Accounts(ctx context.Context, bankID string) ([]json.RawMessage, error) {
	if bankID == "" {
		return nil, &APIError{Message: "bank_id is required"}
	}
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/banks/%s/accounts", apiVersion, bankID), nil, nil)
	if err != nil {
		return nil, err
	}
	return listField(data, "accounts")
}

// Balance is an account balance entry.
type Balance struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// AccountBalance returns the first balance for an account, or nil when the
// account reports none.
func (c *Client) AccountBalance(ctx context.Context, bankID, accountID string) (*Balance, error) {
	if bankID == "" || accountID == "" {
		return nil, &APIError{Message: "bank_id and account_id are required"}
	}
	data, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/balances", apiVersion, bankID, accountID), nil, nil)
	if err != nil {
		return nil, err
	}
	list, err := listField(data, "balances")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	var balance Balance
	if err := json.Unmarshal(list[0], &balance); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode balance: %v", err)}
	}
	return &balance, nil
}

// TransactionQuery are the filters for Transactions.
type TransactionQuery struct {
	BankID        string
	AccountID     string
	ViewID        string
	Limit         int
	Offset        int
	SortDirection string
	FromDate      string
	ToDate        string
}

// Transactions returns the transactions of an account as moderated by the
// view.
func (c *Client) Transactions(ctx context.Context, q TransactionQuery) ([]json.RawMessage, error) {
	if q.BankID == "" || q.AccountID == "" {
		return nil, &APIError{Message: "bank_id and account_id are required"}
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		return nil, &APIError{Message: "offset must be >= 0"}
	}
	if q.ViewID == "" {
		q.ViewID = "owner"
	}
	switch q.SortDirection {
	case "":
		q.SortDirection = "DESC"
	case "ASC", "DESC":
	default:
		return nil, &APIError{Message: `sort_direction must be "ASC" or "DESC"`}
	}

	query := url.Values{
		"limit":          {strconv.Itoa(q.Limit)},
		"offset":         {strconv.Itoa(q.Offset)},
		"sort_direction": {q.SortDirection},
	}
	if q.FromDate != "" {
		query.Set("from_date", q.FromDate)
	}
	if q.ToDate != "" {
		query.Set("to_date", q.ToDate)
	}

	data, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/transactions", apiVersion, q.BankID, q.AccountID, q.ViewID),
		query, nil)
	if err != nil {
		return nil, err
	}
	return listField(data, "transactions")
}

// Transaction returns one transaction by id.
func (c *Client) Transaction(ctx context.Context, bankID, accountID, transactionID, viewID string) (json.RawMessage, error) {
	if bankID == "" || accountID == "" || transactionID == "" {
		return nil, &APIError{Message: "bank_id, account_id and transaction_id are required"}
	}
	if viewID == "" {
		viewID = "owner"
	}
	return c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/transactions/%s/transaction",
			apiVersion, bankID, accountID, viewID, transactionID), nil, nil)
}

// Account returns one account as moderated by the view.
func (c *Client) Account(ctx context.Context, bankID, accountID, viewID string) (json.RawMessage, error) {
	if bankID == "" || accountID == "" {
		return nil, &APIError{Message: "bank_id and account_id are required"}
	}
	if viewID == "" {
		viewID = "owner"
	}
	return c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/account", apiVersion, bankID, accountID, viewID), nil, nil)
}

// Cards lists cards attached to an account.
func (c *Client) Cards(ctx context.Context, bankID, accountID string) ([]json.RawMessage, error) {
	if bankID == "" || accountID == "" {
		return nil, &APIError{Message: "bank_id and account_id are required"}
	}
	data, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/cards", apiVersion, bankID, accountID), nil, nil)
	if err != nil {
		return nil, err
	}
	return listField(data, "cards")
}

// CardRequest is the payload for CreateCard.
type CardRequest struct {
	CardType      string   `json:"card_type"`
	NameOnCard    string   `json:"name_on_card"`
	IssueNumber   string   `json:"issue_number"`
	SerialNumber  string   `json:"serial_number"`
	ValidFromDate string   `json:"valid_from_date"`
	ExpiresDate   string   `json:"expires_date"`
	Enabled       bool     `json:"enabled"`
	Technology    string   `json:"technology"`
	Networks      []string `json:"networks"`
	Allows        []string `json:"allows"`
}

// CreateCard issues a new card for an account.
func (c *Client) CreateCard(ctx context.Context, bankID, accountID string, card CardRequest) (json.RawMessage, error) {
	if bankID == "" || accountID == "" {
		return nil, &APIError{Message: "bank_id and account_id are required"}
	}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/cards", apiVersion, bankID, accountID), nil, card)
}

// AccountsHeldByUser lists the accounts a user holds, optionally filtered by
// account type.
func (c *Client) AccountsHeldByUser(ctx context.Context, userID, typeFilter, filterOperation string) ([]json.RawMessage, error) {
	if userID == "" {
		return nil, &APIError{Message: "user_id is required"}
	}
	if filterOperation != "" && filterOperation != "INCLUDE" && filterOperation != "EXCLUDE" {
		return nil, &APIError{Message: `account_type_filter_operation must be "INCLUDE" or "EXCLUDE"`}
	}

	query := url.Values{}
	if typeFilter != "" {
		query.Set("account_type_filter", typeFilter)
	}
	if filterOperation != "" {
		query.Set("account_type_filter_operation", filterOperation)
	}

	data, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/users/%s/accounts-held", apiVersion, userID), query, nil)
	if err != nil {
		return nil, err
	}
	return listField(data, "accounts")
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/"+apiVersion+"/users/current", nil, nil)
}

// User returns a user profile by id.
func (c *Client) User(ctx context.Context, userID string) (json.RawMessage, error) {
	if userID == "" {
		return nil, &APIError{Message: "user_id is required"}
	}
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/users/%s", apiVersion, userID), nil, nil)
}

// AddTransactionNarrative attaches a free-text narrative to a transaction.
func (c *Client) AddTransactionNarrative(ctx context.Context, bankID, accountID, transactionID, narrative, viewID string) (json.RawMessage, error) {
	if bankID == "" || accountID == "" || transactionID == "" {
		return nil, &APIError{Message: "bank_id, account_id and transaction_id are required"}
	}
	if viewID == "" {
		viewID = "owner"
	}
	body := map[string]string{"narrative": narrative}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/transactions/%s/metadata/narrative",
			apiVersion, bankID, accountID, viewID, transactionID), nil, body)
}

// AddTransactionTag attaches a tag to a transaction.
func (c *Client) AddTransactionTag(ctx context.Context, bankID, accountID, transactionID, tag, viewID string) (json.RawMessage, error) {
	if bankID == "" || accountID == "" || transactionID == "" {
		return nil, &APIError{Message: "bank_id, account_id and transaction_id are required"}
	}
	if viewID == "" {
		viewID = "owner"
	}
	body := map[string]string{"value": tag}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/transactions/%s/metadata/tags",
			apiVersion, bankID, accountID, viewID, transactionID), nil, body)
}

// Counterparties lists the counterparties of an account.
func (c *Client) Counterparties(ctx context.Context, bankID, accountID, viewID string) ([]json.RawMessage, error) {
	if bankID == "" || accountID == "" {
		return nil, &APIError{Message: "bank_id and account_id are required"}
	}
	if viewID == "" {
		viewID = "owner"
	}
	data, err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/counterparties", apiVersion, bankID, accountID, viewID), nil, nil)
	if err != nil {
		return nil, err
	}
	return listField(data, "counterparties")
}

// TransactionRequestBody is the payload for CreateTransactionRequest.
type TransactionRequestBody struct {
	To           TransactionRequestTo `json:"to"`
	Value        Balance              `json:"value"`
	Description  string               `json:"description"`
	ChargePolicy string               `json:"charge_policy"`
}

type TransactionRequestTo struct {
	AccountID string `json:"account_id"`
}

// CreateTransactionRequest initiates a payment of the given request type.
func (c *Client) CreateTransactionRequest(ctx context.Context, bankID, accountID, viewID, requestType string, body TransactionRequestBody) (json.RawMessage, error) {
	if bankID == "" || accountID == "" || requestType == "" {
		return nil, &APIError{Message: "bank_id, account_id and request_type are required"}
	}
	if viewID == "" {
		viewID = "owner"
	}
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/%s/banks/%s/accounts/%s/%s/transaction-request-types/%s/transaction-requests",
			apiVersion, bankID, accountID, viewID, requestType), nil, body)
}

// Close releases the client's idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
