package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"board-automation/internal/automation"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("Signed Delivery", func(t *testing.T) {
		var gotSig string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSig = r.Header.Get(SignatureHeader)
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		sender := NewSender(Config{Secret: "s3cret", RateLimitPerMin: 600}, &mockLogger{})
		payload := []byte(`{"rule_id":"rule-1"}`)
		if err := sender.Send(ctx, srv.URL, payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if string(gotBody) != string(payload) {
			t.Errorf("payload mismatch: %s", gotBody)
		}
		if !strings.HasPrefix(gotSig, "sha256=") {
			t.Fatalf("missing signature prefix: %q", gotSig)
		}
		mac := hmac.New(sha256.New, []byte("s3cret"))
		mac.Write(payload)
		if gotSig != "sha256="+hex.EncodeToString(mac.Sum(nil)) {
			t.Errorf("signature mismatch: %q", gotSig)
		}
	})

	t.Run("No Signature Without Secret", func(t *testing.T) {
		var gotSig string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSig = r.Header.Get(SignatureHeader)
		}))
		defer srv.Close()

		sender := NewSender(Config{RateLimitPerMin: 600}, &mockLogger{})
		if err := sender.Send(ctx, srv.URL, []byte(`{}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotSig != "" {
			t.Errorf("unexpected signature: %q", gotSig)
		}
	})

	t.Run("Non-2xx Is Unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		sender := NewSender(Config{RateLimitPerMin: 600}, &mockLogger{})
		err := sender.Send(ctx, srv.URL, []byte(`{}`))
		if !errors.Is(err, automation.ErrCollaboratorUnavailable) {
			t.Errorf("expected ErrCollaboratorUnavailable, got %v", err)
		}
	})

	t.Run("Bad Destination", func(t *testing.T) {
		sender := NewSender(Config{RateLimitPerMin: 600}, &mockLogger{})
		err := sender.Send(ctx, "ftp://example.com/hook", []byte(`{}`))
		if !errors.Is(err, automation.ErrInvalidActionParameters) {
			t.Errorf("expected ErrInvalidActionParameters, got %v", err)
		}
	})

	t.Run("Rate Limit Per Host", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer srv.Close()

		// 10 per minute yields a burst of 1.
		sender := NewSender(Config{RateLimitPerMin: 10}, &mockLogger{})
		if err := sender.Send(ctx, srv.URL, []byte(`{}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := sender.Send(ctx, srv.URL, []byte(`{}`))
		if !errors.Is(err, automation.ErrCollaboratorUnavailable) {
			t.Errorf("expected rate limit as ErrCollaboratorUnavailable, got %v", err)
		}
		if hits != 1 {
			t.Errorf("second delivery should not reach the server, hits: %d", hits)
		}
	})
}
