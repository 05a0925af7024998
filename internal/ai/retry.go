package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const maxBackoff = 30 * time.Second

// executeWithRetry calls fn until it succeeds, fails permanently or the
// operation's retry budget is spent. Waits between attempts back off
// exponentially from g.backoffBase.
func (g *GeminiGateway) executeWithRetry(ctx context.Context, rt *operationRuntime, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	budget := 0
	if rt.cfg.MaxRetries != nil {
		budget = *rt.cfg.MaxRetries
	}
	log := g.logger.With("operation", rt.op.String())

	var err error
	for attempt := 1; ; attempt++ {
		var res *genai.GenerateContentResponse
		if res, err = fn(); err == nil {
			if attempt > 1 {
				log.Info("Model call recovered", "attempt", attempt)
			}
			return res, nil
		}

		if attempt > budget || ctx.Err() != nil || !isRetryableError(err) {
			break
		}

		wait := backoffDelay(attempt, g.backoffBase)
		log.Warn("Model call failed, retrying", "attempt", attempt, "budget", budget, "wait", wait, "error", err.Error())
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	log.LogError(err, "Model call failed", "budget", budget)
	return nil, fmt.Errorf("operation '%s' failed: %w", rt.op, err)
}

// backoffDelay is base doubled per earlier retry plus up to 10% jitter,
// capped at maxBackoff.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	if attempt > 16 {
		return maxBackoff
	}
	d := base << (attempt - 1)
	if d <= 0 || d >= maxBackoff {
		return maxBackoff
	}
	if spread := int64(d / 10); spread > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(spread)); err == nil {
			d += time.Duration(n.Int64())
		}
	}
	return min(d, maxBackoff)
}

// isRetryableError reports transient failures: network errors and the
// throttling or server-side status codes of either Google client.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code != http.StatusNotImplemented && code <= http.StatusGatewayTimeout)
}
