// Package billplz is a minimal client for the Billplz v3 bill API. Only bill
// creation is implemented; payment confirmation arrives through the
// provider's callback, which is handled outside this service.
package billplz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/config"
)

// Client talks to the Billplz API. Configuration is passed in explicitly;
// the client never reads the process environment.
type Client struct {
	cfg        config.BillplzConfig
	httpClient *http.Client
}

func New(cfg config.BillplzConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// BillRequest describes a bill to create. Amount is in minor units (sen).
type BillRequest struct {
	Email       string
	Name        string
	Amount      int64
	Description string
}

// Bill is the provider's bill payload. URL is where the customer is
// redirected to pay.
type Bill struct {
	ID           string          `json:"id"`
	CollectionID string          `json:"collection_id"`
	State        string          `json:"state"`
	Amount       int64           `json:"amount"`
	Paid         bool            `json:"paid"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	URL          string          `json:"url"`
	Description  string          `json:"description"`
	Raw          json.RawMessage `json:"-"`
}

// Error is the single failure shape for gateway calls, covering both
// structured provider rejections and transport-level failures.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return "billplz: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errorBody matches the provider's rejection shape:
// {"error": {"type": "...", "message": ["..."]}}
type errorBody struct {
	Error struct {
		Type    string          `json:"type"`
		Message json.RawMessage `json:"message"`
	} `json:"error"`
}

// ToMinorUnits converts a base-unit price to the gateway's minor units.
// Rounding keeps decimal prices exact: 19.99 becomes 1999, never 1998.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateBill creates a bill in the configured collection. The call is not
// retried; a duplicate submission would create a duplicate bill.
func (c *Client) CreateBill(ctx context.Context, bill BillRequest) (*Bill, error) {
	form := url.Values{}
	form.Set("collection_id", c.cfg.CollectionID)
	form.Set("email", bill.Email)
	form.Set("name", bill.Name)
	form.Set("amount", strconv.FormatInt(bill.Amount, 10))
	form.Set("description", bill.Description)
	form.Set("callback_url", c.cfg.CallbackURL)
	form.Set("redirect_url", c.cfg.RedirectURL)

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/v3/bills"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}
	// API key as username, empty password.
	req.SetBasicAuth(c.cfg.APIKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: extractMessage(body, resp.StatusCode)}
	}

	var created Bill
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "malformed bill response", Err: err}
	}
	created.Raw = body

	return &created, nil
}

// extractMessage pulls a human-readable message out of the provider's error
// body. The message field may be a string or an array of strings.
func extractMessage(body []byte, statusCode int) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Error.Message) > 0 {
		var messages []string
		if err := json.Unmarshal(parsed.Error.Message, &messages); err == nil && len(messages) > 0 {
			return messages[0]
		}
		var message string
		if err := json.Unmarshal(parsed.Error.Message, &message); err == nil && message != "" {
			return message
		}
	}
	return fmt.Sprintf("request rejected with status %d", statusCode)
}
