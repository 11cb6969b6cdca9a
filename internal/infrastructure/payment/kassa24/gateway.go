// Package kassa24 implements the Kassa24 (pult24) e-commerce gateway.
package kassa24

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/autopro-kz/autopro/internal/application/payment/paymentgateway"
	vo "github.com/autopro-kz/autopro/internal/domain/payment/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const (
	DefaultBaseURL = "https://ecommerce.pult24.kz"
	createPath     = "/payment/create"

	defaultTimeout  = 10 * time.Second
	maxResponseSize = 64 << 10
)

type createPaymentRequest struct {
	MerchantID  string  `json:"merchantId"`
	Amount      int64   `json:"amount"`
	OrderID     string  `json:"orderId"`
	Description string  `json:"description"`
	Demo        bool    `json:"demo"`
	CallbackURL *string `json:"callbackUrl,omitempty"`
	ReturnURL   *string `json:"returnUrl,omitempty"`
	SuccessURL  *string `json:"successUrl,omitempty"`
	FailURL     *string `json:"failUrl,omitempty"`
}

// flexibleID accepts the provider id as either a JSON string or number.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type createPaymentResponse struct {
	URL string     `json:"url"`
	ID  flexibleID `json:"id"`
}

type callbackPayload struct {
	ID     flexibleID      `json:"id"`
	Status json.RawMessage `json:"status"`
}

// Gateway talks to the Kassa24 create-payment API with the merchant
// credentials carried by each request.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewGateway(baseURL string, timeout time.Duration, logger logger.Interface) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ paymentgateway.Gateway = (*Gateway)(nil)

func (g *Gateway) Provider() vo.Provider {
	return vo.ProviderKassa24
}

func (g *Gateway) StatusTable() paymentgateway.StatusTable {
	return paymentgateway.Kassa24StatusTable()
}

func (g *Gateway) CreatePayment(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	if req.Account == nil {
		return nil, g.fail("no active account", nil)
	}
	if req.Transaction == nil || req.Plan == nil || req.Subscription == nil {
		return nil, g.fail("incomplete payment request", nil)
	}
	account := req.Account

	body := createPaymentRequest{
		MerchantID:  account.MerchantID(),
		Amount:      req.Transaction.Amount().MinorUnits(),
		OrderID:     req.Transaction.OrderID(),
		Description: fmt.Sprintf("Подписка %s для владельца #%d", req.Plan.Name(), req.Subscription.OwnerID()),
		Demo:        account.Demo(),
		CallbackURL: account.CallbackURL(),
		ReturnURL:   account.ReturnURL(),
		SuccessURL:  account.SuccessURL(),
		FailURL:     account.FailURL(),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, g.fail("failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+createPath, bytes.NewReader(payload))
	if err != nil {
		return nil, g.fail("failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(account.Login(), account.Password())

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, g.fail("transport failure", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, g.fail("failed to read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warnw("kassa24 returned error status",
			"status", resp.StatusCode,
			"order_id", body.OrderID,
		)
		return nil, g.fail(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var data createPaymentResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, g.fail("malformed response", err)
	}
	if data.URL == "" || data.ID == "" {
		return nil, g.fail("response without url or id", nil)
	}

	g.logger.Infow("kassa24 payment created",
		"order_id", body.OrderID,
		"external_id", string(data.ID),
		"amount_tiyn", body.Amount,
		"demo", body.Demo,
	)

	return &paymentgateway.CreatePaymentResponse{
		PaymentURL: data.URL,
		ExternalID: string(data.ID),
	}, nil
}

// ParseCallback reads {"id": ..., "status": ...}. Status may arrive as a
// number or a numeric string.
func (g *Gateway) ParseCallback(body []byte) (*paymentgateway.CallbackData, error) {
	var payload callbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid callback body: %w", err)
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("callback without id")
	}
	status, err := parseStatus(payload.Status)
	if err != nil {
		return nil, err
	}
	return &paymentgateway.CallbackData{
		ExternalID: string(payload.ID),
		StatusCode: status,
	}, nil
}

func parseStatus(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("callback without status")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid status: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("invalid status %q", s)
		}
		return n, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("invalid status: %w", err)
	}
	return n, nil
}

func (g *Gateway) fail(reason string, err error) error {
	return paymentgateway.NewGatewayError(vo.ProviderKassa24, reason, err)
}
