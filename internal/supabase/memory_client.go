package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryClient is an in-memory stand-in for the backend used to exercise
// repository, service, and handler logic without a running Supabase
// instance. It mimics the observable behaviour this system depends on:
// opaque account ids, duplicate-email rejection, and tables that keep
// rows in insertion order.
type MemoryClient struct {
	mu           sync.Mutex
	accountsByID map[string]Account
	emails       map[string]string // email -> account id
	tables       map[string][]map[string]any
	authErr      error
	tableErr     error
	connectivity error
}

// NewMemoryClient instantiates an empty in-memory backend.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		accountsByID: make(map[string]Account),
		emails:       make(map[string]string),
		tables:       make(map[string][]map[string]any),
	}
}

// WithAuthError forces subsequent identity calls to fail with err.
func (m *MemoryClient) WithAuthError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authErr = err
	return m
}

// WithTableError forces subsequent table calls to fail with err.
func (m *MemoryClient) WithTableError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableErr = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// SeedAccount registers an account directly, bypassing signup. Returns
// the generated id.
func (m *MemoryClient) SeedAccount(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addAccount(email)
}

func (m *MemoryClient) addAccount(email string) string {
	id := uuid.NewString()
	m.accountsByID[id] = Account{ID: id, Email: email, CreatedAt: time.Now().UTC()}
	m.emails[email] = id
	return id
}

func (m *MemoryClient) SignUp(_ context.Context, creds Credentials) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.authErr != nil {
		return Account{}, m.authErr
	}
	if _, exists := m.emails[creds.Email]; exists {
		return Account{}, fmt.Errorf("User already registered")
	}
	id := m.addAccount(creds.Email)
	return m.accountsByID[id], nil
}

func (m *MemoryClient) AccountByID(_ context.Context, id string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.authErr != nil {
		return Account{}, m.authErr
	}
	account, ok := m.accountsByID[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (m *MemoryClient) Insert(_ context.Context, table string, row map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tableErr != nil {
		return nil, m.tableErr
	}
	stored := cloneRow(row)
	m.tables[table] = append(m.tables[table], stored)
	return cloneRow(stored), nil
}

func (m *MemoryClient) Select(_ context.Context, table, column, value string) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tableErr != nil {
		return nil, m.tableErr
	}
	var rows []map[string]any
	for _, row := range m.tables[table] {
		if fmt.Sprint(row[column]) == value {
			rows = append(rows, cloneRow(row))
		}
	}
	return rows, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

// Rows returns a snapshot of the named table in insertion order.
func (m *MemoryClient) Rows(table string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]map[string]any, 0, len(m.tables[table]))
	for _, row := range m.tables[table] {
		rows = append(rows, cloneRow(row))
	}
	return rows
}

func cloneRow(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
