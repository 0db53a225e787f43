package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	ctx := context.Background()

	first, err := New(cfg).Generate(ctx)
	require.NoError(t, err)
	second, err := New(cfg).Generate(ctx)
	require.NoError(t, err)

	// Start dates depend on time.Now, so compare the stable parts.
	require.Equal(t, len(first.Accounts), len(second.Accounts))
	for i := range first.Accounts {
		assert.Equal(t, first.Accounts[i].Username, second.Accounts[i].Username)
		assert.Equal(t, len(first.Accounts[i].SIPs), len(second.Accounts[i].SIPs))
	}
}

func TestGenerateProducesValidAccounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumAccounts = 40

	dataset, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset.Accounts, 40)

	usernames := make(map[string]struct{})
	for _, account := range dataset.Accounts {
		_, dup := usernames[account.Username]
		assert.False(t, dup, "duplicate username %s", account.Username)
		usernames[account.Username] = struct{}{}

		assert.GreaterOrEqual(t, len(account.Username), 3)
		assert.GreaterOrEqual(t, len(account.Password), 6)
		require.NotEmpty(t, account.SIPs)
		assert.LessOrEqual(t, len(account.SIPs), cfg.MaxSIPsPerUser)

		for _, sip := range account.SIPs {
			assert.NotEmpty(t, sip.SchemeName)
			assert.Positive(t, sip.MonthlyAmount)
			_, err := time.Parse("2006-01-02", sip.StartDate)
			assert.NoError(t, err, "start_date %q", sip.StartDate)
		}
	}
}

func TestGenerateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
