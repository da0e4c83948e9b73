package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

const defaultTimeout = 20 * time.Second

// TokenSource supplies the bearer token for the active session. It is read at
// call time so logout takes effect without rebuilding clients.
type TokenSource interface {
	Token() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient injects the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client translates one logical resource into HTTP calls against the remote
// REST backend. It owns request construction and raw response/error
// normalization; everything above it deals in Records and typed errors.
type Client struct {
	baseURL string
	desc    resource.Descriptor
	tokens  TokenSource
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// New constructs a Client for one resource. The token source is explicit
// rather than ambient so tests can inject fake sessions.
func New(baseURL string, desc resource.Descriptor, tokens TokenSource, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("resource client: base URL is required")
	}
	if tokens == nil {
		return nil, errors.New("resource client: token source is required")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		desc:    desc,
		tokens:  tokens,
		http:    &http.Client{},
		timeout: defaultTimeout,
		log:     zap.NewNop(),
	}
	if desc.Timeout > 0 {
		c.timeout = desc.Timeout
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Descriptor returns the resource configuration this client serves.
func (c *Client) Descriptor() resource.Descriptor { return c.desc }

// List fetches the full collection in server order.
func (c *Client) List(ctx context.Context) ([]resource.Record, error) {
	body, err := c.do(ctx, http.MethodGet, c.desc.Endpoints.List, nil)
	if err != nil {
		return nil, err
	}
	return c.decodeList(body)
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, id string) (resource.Record, error) {
	if c.desc.Endpoints.Get == "" {
		return nil, fmt.Errorf("resource client: %s has no get endpoint", c.desc.Name)
	}
	body, err := c.do(ctx, http.MethodGet, c.desc.Endpoints.ForID(c.desc.Endpoints.Get, id), nil)
	if err != nil {
		return nil, err
	}
	return c.decodeOne(body)
}

// Create posts a new record and returns the server-assigned one, including
// the generated primary key.
func (c *Client) Create(ctx context.Context, payload resource.Record) (resource.Record, error) {
	body, err := c.do(ctx, http.MethodPost, c.desc.Endpoints.Create, payload)
	if err != nil {
		return nil, err
	}
	return c.decodeOne(body)
}

// Update sends the changed fields for a record and returns the server's view
// of the result.
func (c *Client) Update(ctx context.Context, id string, partial resource.Record) (resource.Record, error) {
	body, err := c.do(ctx, http.MethodPut, c.desc.Endpoints.ForID(c.desc.Endpoints.Update, id), partial)
	if err != nil {
		return nil, err
	}
	record, err := c.decodeOne(body)
	if err != nil {
		return nil, err
	}
	if _, ok := record.ID(c.desc.PrimaryKey); !ok {
		// Some endpoints respond with the patch echoed back minus the id.
		record[c.desc.PrimaryKey] = id
	}
	return record, nil
}

// Remove deletes a record. A 404 counts as success: a second delete of an
// already-gone id must never strand the UI in an error state.
func (c *Client) Remove(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.desc.Endpoints.ForID(c.desc.Endpoints.Delete, id), nil)
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Status == http.StatusNotFound {
		c.log.Debug("delete of missing record treated as success",
			zap.String("resource", c.desc.Name), zap.String("id", id))
		return nil
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, &AuthError{Reason: "no active session token"}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("resource client: encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("resource client: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(err, requestID)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, c.statusError(resp.StatusCode, data)
}

func (c *Client) transportError(err error, requestID string) error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if !timeout && errors.As(err, &netErr) {
		timeout = netErr.Timeout()
	}
	c.log.Warn("request failed before a response arrived",
		zap.String("resource", c.desc.Name),
		zap.String("request_id", requestID),
		zap.Bool("timeout", timeout),
		zap.Error(err))
	return &NetworkError{Timeout: timeout, Err: err}
}

type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) statusError(status int, data []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(data, &parsed)
	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if message == "" {
			message = "token rejected"
		}
		return &AuthError{Reason: message}
	case status >= 400 && status < 500 && len(parsed.Errors) > 0:
		return &ValidationError{Message: message, FieldErrors: parsed.Errors}
	default:
		return &NetworkError{Status: status, ServerMessage: message}
	}
}

// decodeList normalizes the backend's list shapes: a bare array, {"data":
// [...]}, or the collection nested under "<name>s".
func (c *Client) decodeList(data []byte) ([]resource.Record, error) {
	var records []resource.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode %s list: %w", c.desc.Name, err)}
	}
	for _, key := range []string{"data", c.desc.Name + "s"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &records); err == nil && records != nil {
			return records, nil
		}
	}

	// Last resort: a single array-valued key under an unexpected name.
	var found []resource.Record
	matches := 0
	for _, raw := range wrapper {
		var candidate []resource.Record
		if err := json.Unmarshal(raw, &candidate); err == nil && candidate != nil {
			found = candidate
			matches++
		}
	}
	if matches == 1 {
		return found, nil
	}
	return nil, &NetworkError{Err: fmt.Errorf("decode %s list: no collection found in response", c.desc.Name)}
}

// decodeOne normalizes single-record responses: a bare object, {"data": {...}}
// or the record nested under the resource name.
func (c *Client) decodeOne(data []byte) (resource.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &NetworkError{Err: fmt.Errorf("decode %s record: empty response body", c.desc.Name)}
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode %s record: %w", c.desc.Name, err)}
	}
	for _, key := range []string{"data", c.desc.Name} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		var record resource.Record
		if err := json.Unmarshal(raw, &record); err == nil && record != nil {
			return record, nil
		}
	}

	var record resource.Record
	if err := json.Unmarshal(data, &record); err != nil || record == nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode %s record: no record found in response", c.desc.Name)}
	}
	return record, nil
}
