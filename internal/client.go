package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	headerAuth      = "Authorization"
)

// Transport turns method/path/body triples into HTTP exchanges against the moderation API and
// returns the raw success body. It is safe for concurrent use.
type Transport struct {
	// baseURL has already been trimmed of trailing slashes
	baseURL string

	// authorization is the bearer header value, computed once when the transport is built
	authorization string

	client *http.Client

	log *zap.Logger
}

// NewTransport builds a Transport. If client is nil a new one is created with the given timeout.
// A caller-supplied client is copied so the original is never mutated.
func NewTransport(baseURL, apiKey string, client *http.Client, timeout time.Duration, log *zap.Logger) *Transport {
	var hc http.Client
	if client != nil {
		hc = *client
	} else {
		hc.Timeout = timeout
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Transport{
		baseURL:       baseURL,
		authorization: "Bearer " + apiKey,
		client:        &hc,
		log:           log,
	}
}

// URL joins the base URL and an endpoint path.
func (t *Transport) URL(path string) string {
	return t.baseURL + path
}

// CloseIdleConnections releases any idle keep-alive connections held by the underlying client.
func (t *Transport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

// PostJSON marshals payload and POSTs it to path.
func (t *Transport) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return t.do(ctx, http.MethodPost, path, bytes.NewReader(body), contentTypeJSON)
}

// Get issues a GET to path.
func (t *Transport) Get(ctx context.Context, path string) ([]byte, error) {
	return t.do(ctx, http.MethodGet, path, nil, "")
}

// PostMultipart streams a multipart/form-data body produced by fill to path. fill runs on its own
// goroutine and writes into a pipe read by the HTTP client, so file content is never held in
// memory as a whole. The goroutine is always finished before PostMultipart returns.
func (t *Transport) PostMultipart(ctx context.Context, path string, fill func(*multipart.Writer) error) ([]byte, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := fill(mw)
		if err == nil {
			err = mw.Close()
		}
		// A nil error closes the pipe with io.EOF.
		pw.CloseWithError(err)
	}()

	defer func() {
		// Unblocks a writer stuck on a request the client abandoned.
		pr.Close()
		<-done
	}()

	return t.do(ctx, http.MethodPost, path, pr, mw.FormDataContentType())
}

func (t *Transport) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	url := t.URL(path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	// http.Client strips this header from redirects that leave the original host.
	req.Header.Set(headerAuth, t.authorization)
	req.Header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	t.log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return respBody, nil
}
