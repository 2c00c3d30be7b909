// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Delivery configuration defaults.
const (
	DefaultAttempts = 4                       // Delivery attempts per event
	InitialBackoff  = 2 * time.Second         // First retry delay, doubled per attempt
	MaxBackoff      = 30 * time.Second        // Cap on a single retry delay
	RequestTimeout  = 15 * time.Second        // HTTP request timeout
	MaxResponseLen  = 4 * 1024                // Response body kept for errors
	UserAgent       = "afisha-minsk/1.0"      // User-Agent header value
	SignatureHeader = "X-Webhook-Signature"   // HMAC-SHA256 of the body, hex
	EventHeader     = "X-Webhook-Event"       // Event type
	DeliveryHeader  = "X-Webhook-Delivery-ID" // Unique per delivery, stable across retries
)

// Config holds notifier configuration.
type Config struct {
	URL            string
	Secret         string
	Attempts       int
	InitialBackoff time.Duration
}

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	Success      bool
	StatusCode   int
	ResponseBody string
	Error        error
	ShouldRetry  bool
}

// Notifier posts signed events to one endpoint.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewNotifier creates a notifier for cfg.URL.
func NewNotifier(cfg Config, logger *slog.Logger) *Notifier {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = InitialBackoff
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		logger: logger,
	}
}

// Notify posts an event, retrying network errors, 5xx, 408 and 429 with
// exponential backoff.
func (n *Notifier) Notify(ctx context.Context, eventType string, data any) error {
	payload, err := json.Marshal(NewEvent(eventType, data))
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	deliveryID := uuid.NewString()

	backoff := retry.WithMaxRetries(uint64(n.cfg.Attempts-1),
		retry.WithCappedDuration(MaxBackoff, retry.NewExponential(n.cfg.InitialBackoff)))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		res := n.attemptDelivery(ctx, eventType, deliveryID, payload)
		if res.Success {
			return nil
		}
		n.logger.Warn("webhook delivery failed",
			"event", eventType,
			"delivery_id", deliveryID,
			"attempt", attempt,
			"status", res.StatusCode,
			"error", res.Error,
		)
		if res.ShouldRetry {
			return retry.RetryableError(res.Error)
		}
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delivering %s (%d attempts): %w", eventType, attempt, err)
	}

	n.logger.Info("webhook delivered", "event", eventType, "delivery_id", deliveryID, "attempts", attempt)
	return nil
}

// attemptDelivery performs the actual HTTP POST request.
func (n *Notifier) attemptDelivery(ctx context.Context, eventType, deliveryID string, payload []byte) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return DeliveryResult{
			Error:       fmt.Errorf("failed to create request: %w", err),
			ShouldRetry: false, // Bad URL, don't retry
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(SignatureHeader, GenerateSignature(payload, n.cfg.Secret))
	req.Header.Set(EventHeader, eventType)
	req.Header.Set(DeliveryHeader, deliveryID)

	resp, err := n.client.Do(req)
	if err != nil {
		return DeliveryResult{
			Error:       fmt.Errorf("request failed: %w", err),
			ShouldRetry: ctx.Err() == nil,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	res := DeliveryResult{StatusCode: resp.StatusCode, ResponseBody: string(body)}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		res.Success = true
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Client error - don't retry (except for 408 Request Timeout and 429 Too Many Requests)
		res.Error = fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		res.ShouldRetry = resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests
	default:
		res.Error = fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		res.ShouldRetry = true
	}
	return res
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	expectedSig := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expectedSig))
}
