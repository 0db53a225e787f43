package supabase

import (
	"context"
	"errors"
	"time"
)

// AuthClient is the contract consumed from the identity provider.
type AuthClient interface {
	// SignUp registers a new account and returns it. Duplicate emails
	// and rejected credentials surface as errors with the provider's
	// message intact.
	SignUp(ctx context.Context, creds Credentials) (Account, error)
	// AccountByID resolves an account through the admin API. Returns
	// ErrAccountNotFound when the provider does not know the id.
	AccountByID(ctx context.Context, id string) (Account, error)
}

// TableClient is the contract consumed from the record store.
type TableClient interface {
	// Insert appends a row to the named table and returns the stored
	// representation.
	Insert(ctx context.Context, table string, row map[string]any) (map[string]any, error)
	// Select returns all rows of the named table whose column equals
	// value, in store order.
	Select(ctx context.Context, table, column, value string) ([]map[string]any, error)
}

// Client bundles both backend surfaces plus the readiness probe used by
// health checks.
type Client interface {
	AuthClient
	TableClient
	VerifyConnectivity(ctx context.Context) error
}

// Credentials carries the signup payload handed to the identity provider.
type Credentials struct {
	Email    string
	Password string
	Metadata map[string]any
}

// Account is the slice of the provider's user record this system consumes.
type Account struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Options configures a backend client implementation.
type Options struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
	Timeout    time.Duration
}

// ErrMissingBaseURL indicates the backend URL is not provided.
var ErrMissingBaseURL = errors.New("supabase base URL is required")

// ErrAccountNotFound indicates the identity provider has no account for
// the requested id.
var ErrAccountNotFound = errors.New("account not found")
