package service

import (
	"time"

	"github.com/saps13/sip/internal/domain"
)

// Aggregate folds a user's investment records into per-scheme summaries
// plus a grand total, deterministic for fixed records and now.
//
// Months elapsed is a pure calendar difference that ignores day-of-month,
// so a record started on the 31st counts a full month on the 1st. Records
// started after now yield a negative month count that flows unclamped
// into the amounts. Schemes appear in first-seen input order; a scheme's
// MonthsInvested comes from the first record stored for it, while every
// record adds to the totals.
func Aggregate(records []domain.InvestmentRecord, now time.Time) domain.InvestmentSummary {
	summary := domain.InvestmentSummary{Schemes: []domain.SchemeSummary{}}
	index := make(map[string]int, len(records))

	for _, rec := range records {
		months := monthsBetween(rec.StartDate, now)
		invested := rec.MonthlyAmount * int64(months)

		pos, seen := index[rec.SchemeName]
		if !seen {
			pos = len(summary.Schemes)
			index[rec.SchemeName] = pos
			summary.Schemes = append(summary.Schemes, domain.SchemeSummary{
				SchemeName:     rec.SchemeName,
				MonthsInvested: months,
			})
		}

		summary.Schemes[pos].TotalInvestment += invested
		summary.TotalInvestment += invested
	}

	return summary
}

// monthsBetween returns the whole-calendar-month difference from start
// to now. Negative when start is after now.
func monthsBetween(start, now time.Time) int {
	return (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
}
