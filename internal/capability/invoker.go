package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"

	"priorauth/internal/platform/config"
	"priorauth/internal/priorauth"
)

// Invoker posts a request payload to a named capability and returns the
// decoded response payload.
type Invoker interface {
	Invoke(ctx context.Context, capability string, payload any) (map[string]any, error)
}

// HTTPInvoker calls capability endpoints over HTTP. Concurrency across all
// capabilities is bounded by a weighted semaphore; each call gets its own
// timeout and retryable failures are attempted once more before the run is
// aborted.
//
// Response bodies are never treated as errors here: any body, however
// malformed, decodes to a payload whose missing fields take their
// normalization defaults downstream.
type HTTPInvoker struct {
	cfg        config.Capabilities
	cache      HandleCache
	httpClient *http.Client
	sem        *semaphore.Weighted
	logger     *slog.Logger
}

type InvokerOption func(*HTTPInvoker)

func WithHTTPClient(client *http.Client) InvokerOption {
	return func(i *HTTPInvoker) {
		i.httpClient = client
	}
}

func WithInvokerLogger(logger *slog.Logger) InvokerOption {
	return func(i *HTTPInvoker) {
		i.logger = logger
	}
}

func NewHTTPInvoker(cfg config.Capabilities, cache HandleCache, opts ...InvokerOption) *HTTPInvoker {
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 32
	}

	inv := &HTTPInvoker{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{},
		sem:        semaphore.NewWeighted(maxInFlight),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

func (i *HTTPInvoker) Invoke(ctx context.Context, capability string, payload any) (map[string]any, error) {
	if err := i.sem.Acquire(ctx, 1); err != nil {
		return nil, NewError(ErrorTimeout, capability, "waiting for call slot", err)
	}
	defer i.sem.Release(1)

	endpoint, err := i.resolveEndpoint(ctx, capability)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewError(ErrorInternal, capability, "marshal request payload", err)
	}

	attempts := 1 + i.cfg.RetryAttempts
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := i.call(ctx, capability, endpoint, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == attempts {
			break
		}
		if i.logger != nil {
			i.logger.WarnContext(ctx, "capability call failed, retrying",
				"capability", capability, "attempt", attempt, "error", err)
		}
	}
	return nil, lastErr
}

func (i *HTTPInvoker) call(ctx context.Context, capability, endpoint string, body []byte) (map[string]any, error) {
	callCtx, cancel := context.WithTimeout(ctx, i.cfg.CallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewError(ErrorInternal, capability, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			return nil, NewError(ErrorTimeout, capability, "call timed out", err)
		}
		return nil, NewError(ErrorOutage, capability, "endpoint unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(ErrorOutage, capability, "read response body", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, NewError(ErrorOutage, capability,
			fmt.Sprintf("endpoint returned status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewError(ErrorRateLimited, capability, "endpoint rate limited the call", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewError(ErrorAuthentication, capability,
			fmt.Sprintf("endpoint returned status %d", resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, NewError(ErrorBadRequest, capability,
			fmt.Sprintf("endpoint returned status %d", resp.StatusCode), nil)
	}

	return priorauth.DecodePayload(raw), nil
}

// resolveEndpoint looks up the capability handle in the cache, deriving and
// caching it on a miss. Cache failures degrade to direct derivation; they
// never block a call.
func (i *HTTPInvoker) resolveEndpoint(ctx context.Context, capability string) (string, error) {
	if i.cache != nil {
		endpoint, err := i.cache.Get(ctx, capability)
		if err != nil && i.logger != nil {
			i.logger.WarnContext(ctx, "capability handle cache get failed",
				"capability", capability, "error", err)
		}
		if endpoint != "" {
			return endpoint, nil
		}
	}

	endpoint := i.deriveEndpoint(capability)
	if endpoint == "" {
		return "", NewError(ErrorInternal, capability, "no endpoint configured", nil)
	}

	if i.cache != nil {
		if err := i.cache.Set(ctx, capability, endpoint); err != nil && i.logger != nil {
			i.logger.WarnContext(ctx, "capability handle cache set failed",
				"capability", capability, "error", err)
		}
	}
	return endpoint, nil
}

func (i *HTTPInvoker) deriveEndpoint(capability string) string {
	if override, ok := i.cfg.Overrides[capability]; ok {
		return override
	}
	if i.cfg.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(i.cfg.BaseURL, "/") + "/capabilities/" + capability
}
