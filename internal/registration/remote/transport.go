package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 64 << 10

// Transport submits an encoded form and returns the raw response body
type Transport interface {
	SubmitForm(ctx context.Context, method, target, encodedBody string) (string, error)
}

// TransportConfig holds HTTP transport configuration
type TransportConfig struct {
	// Timeout of a single request; zero means no timeout
	Timeout   time.Duration
	UserAgent string
}

// HTTPTransport is the net/http implementation of Transport.
// Cookies set by the site (session, csrftoken) are kept between requests.
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
	log        *zap.Logger
}

// NewHTTPTransport creates a transport with its own cookie jar
func NewHTTPTransport(cfg TransportConfig, log *zap.Logger) (*HTTPTransport, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		userAgent: cfg.UserAgent,
		log:       log,
	}, nil
}

// SubmitForm sends encodedBody as application/x-www-form-urlencoded
func (t *HTTPTransport) SubmitForm(ctx context.Context, method, target, encodedBody string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(encodedBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", requestID)
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	t.log.Debug("form submitted",
		zap.String("request_id", requestID),
		zap.String("target", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, target)
	}

	return string(body), nil
}
