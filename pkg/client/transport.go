package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// TokenSource supplies the bearer token for a request. Returning
// ErrNotSignedIn sends the request anonymously.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type transport struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	maxRetries int
}

func newTransport(cfg Config, tokens TokenSource) *transport {
	return &transport{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       cfg.HTTPClient,
		tokens:     tokens,
		maxRetries: cfg.MaxRetries,
	}
}

func (t *transport) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out)
}

func (t *transport) send(ctx context.Context, method, path string, body, out interface{}) error {
	return t.do(ctx, method, path, nil, body, out)
}

// do performs one API call and decodes the envelope's data into out. GETs
// are retried with exponential backoff on network errors, 5xx and 429.
func (t *transport) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	attempt := func() error {
		err := t.once(ctx, method, path, query, payload, out)
		if err == nil {
			return nil
		}
		var fe *FetchError
		if ctx.Err() != nil || !errors.As(err, &fe) || !fe.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}

	if method != http.MethodGet || t.maxRetries < 0 {
		err := attempt()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second
	return backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(b, uint64(t.maxRetries)), ctx))
}

func (t *transport) once(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}) error {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if t.tokens != nil {
		token, err := t.tokens.Token(ctx)
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, ErrNotSignedIn):
		default:
			return err
		}
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return &FetchError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &FetchError{Method: method, Path: path, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Err: err}
		}
		return &FetchError{Method: method, Path: path, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}

	if resp.StatusCode >= 300 || !env.Success {
		fe := &FetchError{Method: method, Path: path, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			fe.Code = env.Error.Code
			fe.Message = env.Error.Message
			if fe.Code == "VALIDATION_ERROR" {
				return &ValidationError{Field: env.Error.Details["field"], Message: env.Error.Message}
			}
		}
		return fe
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &FetchError{Method: method, Path: path, Status: resp.StatusCode, Message: "malformed response data", Err: err}
	}
	return nil
}
