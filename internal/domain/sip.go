package domain

import "time"

// InvestmentRecord is one recurring-investment enrollment. Records are
// written once by SIP creation and never updated or deleted; the sips
// table in the backend owns them.
type InvestmentRecord struct {
	UserID        string
	SchemeName    string
	MonthlyAmount int64
	StartDate     time.Time // calendar date, no time component
}

// SchemeSummary is the per-scheme aggregate computed for a summary
// request. MonthsInvested counts whole calendar months since the first
// recorded enrollment for the scheme and may be negative for
// future-dated records.
type SchemeSummary struct {
	SchemeName      string
	TotalInvestment int64
	MonthsInvested  int
}

// InvestmentSummary groups a user's schemes with the grand total across
// every record. Computed fresh per request, never persisted.
type InvestmentSummary struct {
	Schemes         []SchemeSummary
	TotalInvestment int64
}
