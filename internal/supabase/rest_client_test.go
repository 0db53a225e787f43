package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewRESTClient(Options{
		BaseURL:    server.URL,
		AnonKey:    "anon-key",
		ServiceKey: "service-key",
	})
	require.NoError(t, err)
	return client
}

func TestNewRESTClientRequiresBaseURL(t *testing.T) {
	_, err := NewRESTClient(Options{})
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestSignUpPostsToGoTrue(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "acc-1",
			"email": "johndoe@gmail.com",
		})
	}))

	account, err := client.SignUp(context.Background(), Credentials{
		Email:    "johndoe@gmail.com",
		Password: "secret123",
		Metadata: map[string]any{"plan": "basic"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/auth/v1/signup", gotPath)
	assert.Equal(t, "anon-key", gotKey, "signup must use the anon key")
	assert.Equal(t, "johndoe@gmail.com", gotBody["email"])
	assert.Equal(t, map[string]any{"plan": "basic"}, gotBody["data"])
	assert.Equal(t, "acc-1", account.ID)
}

func TestSignUpUnwrapsSessionEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "jwt",
			"user":         map[string]any{"id": "acc-2", "email": "a@gmail.com"},
		})
	}))

	account, err := client.SignUp(context.Background(), Credentials{Email: "a@gmail.com", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "acc-2", account.ID)
}

func TestSignUpSurfacesProviderMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"msg": "User already registered"})
	}))

	_, err := client.SignUp(context.Background(), Credentials{Email: "a@gmail.com", Password: "secret123"})

	require.Error(t, err)
	assert.Equal(t, "User already registered", err.Error())
}

func TestAccountByIDUsesAdminAPI(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/users/acc-1", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "acc-1", "email": "a@gmail.com"})
	}))

	account, err := client.AccountByID(context.Background(), "acc-1")

	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, "a@gmail.com", account.Email)
}

func TestAccountByIDNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.AccountByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestInsertRequestsRepresentation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/sips", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var row map[string]any
		_ = json.NewDecoder(r.Body).Decode(&row)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
	}))

	row, err := client.Insert(context.Background(), "sips", map[string]any{
		"user_id":     "acc-1",
		"scheme_name": "Bluechip",
	})

	require.NoError(t, err)
	assert.Equal(t, "acc-1", row["user_id"])
}

func TestSelectFiltersByColumn(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/sips", r.URL.Path)
		assert.Equal(t, "eq.acc-1", r.URL.Query().Get("user_id"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"scheme_name": "Bluechip"},
			{"scheme_name": "Midcap"},
		})
	}))

	rows, err := client.Select(context.Background(), "sips", "user_id", "acc-1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bluechip", rows[0]["scheme_name"])
}

func TestVerifyConnectivityProbesHealth(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "GoTrue"})
	}))

	require.NoError(t, client.VerifyConnectivity(context.Background()))
	assert.Equal(t, "/auth/v1/health", gotPath)
}
