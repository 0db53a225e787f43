package supabase

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
)

const defaultTimeout = 5 * time.Second

// NewRESTClient builds a client speaking the backend's HTTP surface:
// GoTrue for identity (anon key for signup, service-role key for admin
// lookups) and PostgREST for table access (service-role key).
func NewRESTClient(opts Options) (Client, error) {
	if opts.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &restClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		anonKey:    opts.AnonKey,
		serviceKey: opts.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type restClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

type signUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type accountPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// signUpResponse tolerates both GoTrue response shapes: a bare user
// object when confirmation is pending and a session envelope otherwise.
type signUpResponse struct {
	accountPayload
	User *accountPayload `json:"user"`
}

func (c *restClient) SignUp(ctx context.Context, creds Credentials) (Account, error) {
	body := signUpRequest{
		Email:    creds.Email,
		Password: creds.Password,
		Data:     creds.Metadata,
	}

	var resp signUpResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", c.anonKey, body, &resp); err != nil {
		return Account{}, err
	}

	payload := resp.accountPayload
	if resp.User != nil {
		payload = *resp.User
	}
	if payload.ID == "" {
		return Account{}, fmt.Errorf("signup response carried no user")
	}
	return Account{ID: payload.ID, Email: payload.Email, CreatedAt: payload.CreatedAt}, nil
}

func (c *restClient) AccountByID(ctx context.Context, id string) (Account, error) {
	var payload accountPayload
	path := "/auth/v1/admin/users/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, c.serviceKey, nil, &payload); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	if payload.ID == "" {
		return Account{}, ErrAccountNotFound
	}
	return Account{ID: payload.ID, Email: payload.Email, CreatedAt: payload.CreatedAt}, nil
}

func (c *restClient) Insert(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	var rows []map[string]any
	path := "/rest/v1/" + url.PathEscape(table)
	if err := c.do(ctx, http.MethodPost, path, c.serviceKey, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no rows", table)
	}
	return rows[0], nil
}

func (c *restClient) Select(ctx context.Context, table, column, value string) ([]map[string]any, error) {
	path := fmt.Sprintf("/rest/v1/%s?%s=eq.%s",
		url.PathEscape(table), url.QueryEscape(column), url.QueryEscape(value))

	var rows []map[string]any
	if err := c.do(ctx, http.MethodGet, path, c.serviceKey, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *restClient) VerifyConnectivity(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/v1/health", c.anonKey, nil, nil)
}

func (c *restClient) do(ctx context.Context, method, path, key string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost && strings.HasPrefix(path, "/rest/v1/") {
		// PostgREST omits the inserted row unless asked for it.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeErrorBody(resp)
	}
	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}

// statusError keeps the HTTP status alongside the provider's message so
// callers can distinguish absence from other failures.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return e.message
}

// decodeErrorBody extracts the provider's message from the handful of
// error envelope shapes GoTrue and PostgREST emit.
func decodeErrorBody(resp *http.Response) error {
	fallback := &statusError{status: resp.StatusCode, message: "supabase responded " + resp.Status}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return fallback
	}

	var envelope struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, msg := range []string{envelope.Msg, envelope.Message, envelope.ErrorDescription, envelope.ErrorCode} {
			if msg != "" {
				return &statusError{status: resp.StatusCode, message: msg}
			}
		}
	}
	return fallback
}
