package utils

import (
	"log"
	"net/http"
	"strings"
	"time"

	"learnit/config"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var ErrPaymentNotConfirmed = errors.New("payment not confirmed")

// PaymentStatus is the gateway's view of one payment
type PaymentStatus struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PaymentGateway verifies payments made on the hosted checkout
type PaymentGateway struct {
	client *resty.Client
}

func NewPaymentGateway(baseURL, apiKey string) *PaymentGateway {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &PaymentGateway{client: client}
}

// Verify succeeds when the payment exists, is settled and covers minAmount
func (g *PaymentGateway) Verify(paymentID string, minAmount float64) (*PaymentStatus, error) {
	var status PaymentStatus
	resp, err := g.client.R().
		SetPathParam("id", paymentID).
		SetResult(&status).
		Get("/payments/{id}")
	if err != nil {
		return nil, errors.Wrap(err, "payment gateway request")
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Wrapf(ErrPaymentNotConfirmed, "payment %s unknown", paymentID)
	default:
		return nil, errors.Errorf("payment gateway returned %d: %s", resp.StatusCode(), resp.String())
	}

	switch strings.ToLower(status.Status) {
	case "paid", "captured", "succeeded":
	default:
		return nil, errors.Wrapf(ErrPaymentNotConfirmed, "payment %s is %q", paymentID, status.Status)
	}
	if status.Amount < minAmount {
		return nil, errors.Wrapf(ErrPaymentNotConfirmed, "payment %s covers %.2f of %.2f", paymentID, status.Amount, minAmount)
	}

	return &status, nil
}

// VerifyPayment checks paymentID against the configured gateway. Without
// PAYMENT_API_URL every payment is accepted.
func VerifyPayment(paymentID string, minAmount float64) error {
	cfg := config.AppConfig
	if cfg.PaymentApiURL == "" {
		log.Printf("[PAYMENT] PAYMENT_API_URL not set, accepting payment %s without verification", paymentID)
		return nil
	}
	_, err := NewPaymentGateway(cfg.PaymentApiURL, cfg.PaymentApiKey).Verify(paymentID, minAmount)
	return err
}
