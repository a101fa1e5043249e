package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultResendBase = "https://api.resend.com"

	fromAddress   = "TicketAlert Norge <onboarding@resend.dev>"
	subjectPrefix = "🎫 Videresolgte billetter tilgjengelig: "
)

// Resend sends transactional email through the Resend API.
type Resend struct {
	apiKey string
	http   *resty.Client
}

// NewResend builds a Resend mailer.
func NewResend(apiKey string) *Resend {
	return &Resend{
		apiKey: apiKey,
		http: resty.New().
			SetBaseURL(defaultResendBase).
			SetTimeout(30 * time.Second),
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Message string `json:"message"`
}

// SendResaleAlert renders the alert template and dispatches it.
func (m *Resend) SendResaleAlert(ctx context.Context, alert Alert) error {
	html, err := renderAlert(alert)
	if err != nil {
		return err
	}

	var apiErr resendError
	resp, err := m.http.R().
		SetContext(ctx).
		SetAuthToken(m.apiKey).
		SetBody(resendRequest{
			From:    fromAddress,
			To:      []string{alert.To},
			Subject: subjectPrefix + alert.EventName,
			HTML:    html,
		}).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	if !resp.IsSuccess() {
		if apiErr.Message != "" {
			return fmt.Errorf("resend rejected alert: %s", apiErr.Message)
		}
		return fmt.Errorf("resend rejected alert: status %d", resp.StatusCode())
	}

	return nil
}
