package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"certvault/internal/platform/config"
)

const statusApproved = "approved"

// Twilio error codes we translate into caller errors rather than outages.
const (
	twilioCodeInvalidParameter = 60200
	twilioCodeNotFound         = 20404
)

// TwilioProvider speaks the Twilio Verify v2 REST API directly; the payloads
// are two form posts, which does not justify pulling in an SDK.
type TwilioProvider struct {
	cfg        config.TwilioConfig
	httpClient *http.Client
}

func NewTwilioProvider(cfg config.TwilioConfig) *TwilioProvider {
	return &TwilioProvider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StartChallenge asks Twilio to send an SMS code to phone.
func (p *TwilioProvider) StartChallenge(ctx context.Context, phone string) (Challenge, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")

	body, err := p.post(ctx, "/v2/Services/"+p.cfg.VerifySID+"/Verifications", form)
	if err != nil {
		return Challenge{}, err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Challenge{}, fmt.Errorf("decode verification response: %w", err)
	}
	return Challenge{Status: resp.Status}, nil
}

// CheckChallenge submits the code once. Twilio reports 20404 when the
// verification was already consumed or expired; that is a rejection, not an
// outage.
func (p *TwilioProvider) CheckChallenge(ctx context.Context, phone, code string) (CheckResult, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)

	body, err := p.post(ctx, "/v2/Services/"+p.cfg.VerifySID+"/VerificationCheck", form)
	if err != nil {
		return CheckResult{}, err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return CheckResult{}, fmt.Errorf("decode verification check response: %w", err)
	}
	return CheckResult{Approved: resp.Status == statusApproved}, nil
}

func (p *TwilioProvider) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.AccountSID, p.cfg.AuthToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	var apiErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &apiErr)

	switch {
	case apiErr.Code == twilioCodeInvalidParameter:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPhone, apiErr.Message)
	case apiErr.Code == twilioCodeNotFound:
		// Verification expired or already checked; not approved.
		return []byte(`{"status":"expired"}`), nil
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, apiErr.Message)
	}
}
