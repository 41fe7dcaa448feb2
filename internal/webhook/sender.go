package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"board-automation/internal/automation"
	pkgLog "board-automation/pkg/log"
)

// SignatureHeader carries the payload HMAC so receivers can verify the
// sender. Format: "sha256=<hex>".
const SignatureHeader = "X-Automation-Signature"

// Config tunes outbound webhook delivery.
type Config struct {
	// Secret signs payloads. Empty disables signing.
	Secret string

	// Timeout bounds one delivery end to end.
	Timeout time.Duration

	// RateLimitPerMin caps deliveries per destination host.
	RateLimitPerMin int
}

// Sender delivers automation webhook payloads. Delivery is one POST,
// no retries: a failed delivery surfaces as a failed action outcome
// and rule authors can see it in the execution log.
type Sender struct {
	client  *http.Client
	secret  string
	limiter *hostLimiter
	l       pkgLog.Logger
}

// NewSender creates an outbound webhook sender.
func NewSender(cfg Config, l pkgLog.Logger) *Sender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 60
	}
	return &Sender{
		client:  &http.Client{Timeout: timeout},
		secret:  cfg.Secret,
		limiter: newHostLimiter(perMin),
		l:       l,
	}
}

var _ automation.WebhookSender = (*Sender)(nil)

// Send posts the payload to the destination. Every failure wraps
// ErrCollaboratorUnavailable so the executor classifies it uniformly.
func (s *Sender) Send(ctx context.Context, rawURL string, body []byte) error {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return fmt.Errorf("%w: destination %q is not an http(s) url", automation.ErrInvalidActionParameters, rawURL)
	}

	if err := s.limiter.Allow(target.Host); err != nil {
		s.l.Warnf(ctx, "webhook: %v", err)
		return fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+s.sign(body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.l.Warnf(ctx, "webhook: POST %s: %v", rawURL, err)
		return fmt.Errorf("%w: %v", automation.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.l.Warnf(ctx, "webhook: POST %s: status %d", rawURL, resp.StatusCode)
		return fmt.Errorf("%w: POST %s: status %d", automation.ErrCollaboratorUnavailable, rawURL, resp.StatusCode)
	}
	return nil
}

func (s *Sender) sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// hostLimiter rate limits per destination host with auto-cleanup of
// idle entries.
type hostLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newHostLimiter(requestsPerMin int) *hostLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &hostLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](1000, nil, time.Minute*5),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
	}
}

func (hl *hostLimiter) Allow(host string) error {
	limiter, ok := hl.limiters.Get(host)
	if !ok {
		limiter = rate.NewLimiter(hl.rate, hl.burst)
		hl.limiters.Add(host, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", host)
	}
	return nil
}
