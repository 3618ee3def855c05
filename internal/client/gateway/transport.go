package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// call describes one request to a service.
type call struct {
	op     string
	method string
	path   string

	// auth attaches the session token when one is present.
	auth bool

	json any
	form url.Values

	status statusMapper
}

// transport performs calls against one service.
type transport struct {
	service   string
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	timeout   time.Duration
	userAgent string
	log       logging.Logger
	metrics   *metrics
}

// do executes c and decodes a successful response body into out (when out is
// non-nil). All failures are returned as *Error.
func (t *transport) do(ctx context.Context, c call, out any) (err error) {
	start := time.Now()
	reqID := uuid.NewString()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(common.KindOf(err))
		}
		t.metrics.requests.WithLabelValues(t.service, c.op, outcome).Inc()
		t.metrics.duration.WithLabelValues(t.service, c.op).Observe(time.Since(start).Seconds())
		t.log.Debug(ctx, "service call finished",
			"op", c.op, "method", c.method, "path", c.path,
			"request_id", reqID, "outcome", outcome, "elapsed", time.Since(start))
	}()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := t.newRequest(ctx, c, reqID)
	if err != nil {
		return &Error{Op: c.op, Kind: common.KindUnknown, err: err}
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return &Error{Op: c.op, Kind: common.KindNetworkUnreachable, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return t.statusError(c, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: c.op, Kind: common.KindNetworkUnreachable, Status: resp.StatusCode, err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: c.op, Kind: common.KindUnknown, Status: resp.StatusCode,
			err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (t *transport) newRequest(ctx context.Context, c call, reqID string) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case c.form != nil:
		body = strings.NewReader(c.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case c.json != nil:
		data, err := json.Marshal(c.json)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, c.method, t.baseURL+c.path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if c.auth {
		if token, ok := t.tokens.Token(ctx); ok {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}
	return req, nil
}

func (t *transport) statusError(c call, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && !errors.Is(err, io.EOF) {
		t.log.Debug(context.Background(), "reading error body failed", "op", c.op, "error", err)
	}

	kind := kindForStatus(resp.StatusCode)
	if c.status != nil {
		if k, ok := c.status(resp.StatusCode); ok {
			kind = k
		}
	}

	return &Error{
		Op:      c.op,
		Kind:    kind,
		Status:  resp.StatusCode,
		Message: detailMessage(body),
	}
}

// idPath formats a resource path with a numeric identifier.
func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
