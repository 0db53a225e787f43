package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Dataset is the demo payload consumed by the seed tool.
type Dataset struct {
	Accounts []Account `json:"accounts"`
}

// Account is one signup plus the SIP enrollments to create for it.
type Account struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata,omitempty"`
	SIPs     []SIP          `json:"sips"`
}

// SIP is one enrollment with the start date in YYYY-MM-DD form.
type SIP struct {
	SchemeName    string `json:"scheme_name"`
	MonthlyAmount int64  `json:"monthly_amount"`
	StartDate     string `json:"start_date"`
}

var firstNames = []string{
	"priya", "rahul", "ananya", "vikram", "meera", "arjun", "kavya",
	"rohan", "isha", "aditya", "sneha", "karan", "divya", "nikhil",
}

var lastNames = []string{
	"sharma", "patel", "iyer", "reddy", "nair", "gupta", "joshi",
	"mehta", "rao", "kulkarni", "das", "singh",
}

var schemeNames = []string{
	"Bluechip Growth Fund",
	"Midcap Opportunities",
	"Balanced Advantage",
	"Nifty 50 Index Fund",
	"ELSS Tax Saver",
	"Liquid Fund",
	"Small Cap Discovery",
}

// Generator produces deterministic demo datasets.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a Generator seeded from the config.
func New(cfg Config) *Generator {
	if cfg.NumAccounts <= 0 {
		cfg.NumAccounts = DefaultConfig().NumAccounts
	}
	if cfg.MaxSIPsPerUser <= 0 {
		cfg.MaxSIPsPerUser = DefaultConfig().MaxSIPsPerUser
	}
	if cfg.MonthsBack <= 0 {
		cfg.MonthsBack = DefaultConfig().MonthsBack
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds the dataset. Usernames carry an index suffix so the
// derived provider emails stay unique.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	dataset := Dataset{Accounts: make([]Account, 0, g.cfg.NumAccounts)}
	now := time.Now().UTC()

	for i := 0; i < g.cfg.NumAccounts; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		username := fmt.Sprintf("%s.%s%02d", first, last, i)

		account := Account{
			Username: username,
			Password: fmt.Sprintf("demo-pass-%04d", g.rng.Intn(10000)),
			Metadata: map[string]any{
				"full_name": first + " " + last,
				"source":    "datagen",
			},
		}

		numSIPs := 1 + g.rng.Intn(g.cfg.MaxSIPsPerUser)
		var enrolled []string
		for j := 0; j < numSIPs; j++ {
			scheme := g.pickScheme(enrolled)
			enrolled = append(enrolled, scheme)
			account.SIPs = append(account.SIPs, SIP{
				SchemeName:    scheme,
				MonthlyAmount: int64(500 + 250*g.rng.Intn(39)),
				StartDate:     g.pickStartDate(now).Format("2006-01-02"),
			})
		}

		dataset.Accounts = append(dataset.Accounts, account)
	}

	return dataset, nil
}

func (g *Generator) pickScheme(enrolled []string) string {
	if len(enrolled) > 0 && g.rng.Float64() < g.cfg.ReenrollChance {
		return enrolled[g.rng.Intn(len(enrolled))]
	}
	return schemeNames[g.rng.Intn(len(schemeNames))]
}

func (g *Generator) pickStartDate(now time.Time) time.Time {
	day := 1 + g.rng.Intn(28)
	if g.rng.Float64() < g.cfg.FutureChance {
		ahead := 1 + g.rng.Intn(6)
		future := now.AddDate(0, ahead, 0)
		return time.Date(future.Year(), future.Month(), day, 0, 0, 0, 0, time.UTC)
	}
	back := g.rng.Intn(g.cfg.MonthsBack + 1)
	past := now.AddDate(0, -back, 0)
	return time.Date(past.Year(), past.Month(), day, 0, 0, 0, 0, time.UTC)
}
