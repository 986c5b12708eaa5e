package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// LineItem is one priced line of a checkout session request.
type LineItem struct {
	Name       string
	UnitAmount int64 // minor units (cents)
	Currency   string
	Quantity   int64
}

type SessionRequest struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// Session is the provider's hosted checkout session. The caller
// redirects the buyer to URL and keeps ID for the webhook match.
type Session struct {
	ID  string
	URL string
}

// Gateway abstracts the payment provider so checkout can be exercised
// without network access.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// stripeSessionResponse represents the Stripe checkout session reply.
type stripeSessionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StripeClient creates hosted checkout sessions through Stripe's
// form-encoded HTTP API.
type StripeClient struct {
	apiBase   string
	secretKey string
	client    *http.Client
}

// NewStripeClientFromEnv reads STRIPE_SECRET_KEY and the optional
// STRIPE_API_BASE override (used against a stub in tests).
func NewStripeClientFromEnv() (*StripeClient, error) {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("stripe configuration missing: STRIPE_SECRET_KEY is not set")
	}

	apiBase := os.Getenv("STRIPE_API_BASE")
	if apiBase == "" {
		apiBase = "https://api.stripe.com"
	}

	return &StripeClient{
		apiBase:   strings.TrimRight(apiBase, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (s *StripeClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)

	for i, item := range req.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.apiBase+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment provider: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var sessionResp stripeSessionResponse
	if err := json.Unmarshal(body, &sessionResp); err != nil {
		return nil, fmt.Errorf("failed to parse payment provider response (%d)", resp.StatusCode)
	}

	if sessionResp.Error != nil {
		return nil, fmt.Errorf("payment provider error: %s", sessionResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider error (%d)", resp.StatusCode)
	}
	if sessionResp.URL == "" {
		return nil, fmt.Errorf("payment provider returned empty session URL")
	}

	return &Session{ID: sessionResp.ID, URL: sessionResp.URL}, nil
}
