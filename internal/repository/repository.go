package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/saps13/sip/internal/domain"
	"github.com/saps13/sip/internal/supabase"
)

const sipsTable = "sips"

const dateLayout = "2006-01-02"

// SIPRepository encapsulates persistence of investment records in the
// backend's sips table.
type SIPRepository struct {
	client supabase.TableClient
}

// New instantiates a SIPRepository backed by the supplied table client.
func New(client supabase.TableClient) *SIPRepository {
	return &SIPRepository{client: client}
}

// InsertRecord appends one investment record. Records are immutable once
// stored.
func (r *SIPRepository) InsertRecord(ctx context.Context, rec domain.InvestmentRecord) error {
	row := map[string]any{
		"user_id":        rec.UserID,
		"scheme_name":    rec.SchemeName,
		"monthly_amount": rec.MonthlyAmount,
		"start_date":     rec.StartDate.Format(dateLayout),
	}

	if _, err := r.client.Insert(ctx, sipsTable, row); err != nil {
		return fmt.Errorf("insert sip for user %s: %w", rec.UserID, err)
	}
	return nil
}

// RecordsByUser returns every investment record of the user in store
// order. That order feeds the summary's first-record-per-scheme rule, so
// it is preserved as returned.
func (r *SIPRepository) RecordsByUser(ctx context.Context, userID string) ([]domain.InvestmentRecord, error) {
	rows, err := r.client.Select(ctx, sipsTable, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("select sips for user %s: %w", userID, err)
	}

	records := make([]domain.InvestmentRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode sip row for user %s: %w", userID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordFromRow(row map[string]any) (domain.InvestmentRecord, error) {
	userID, _ := row["user_id"].(string)
	schemeName, _ := row["scheme_name"].(string)
	if schemeName == "" {
		return domain.InvestmentRecord{}, fmt.Errorf("row missing scheme_name")
	}

	amount, err := amountFromValue(row["monthly_amount"])
	if err != nil {
		return domain.InvestmentRecord{}, err
	}

	startDate, err := dateFromValue(row["start_date"])
	if err != nil {
		return domain.InvestmentRecord{}, err
	}

	return domain.InvestmentRecord{
		UserID:        userID,
		SchemeName:    schemeName,
		MonthlyAmount: amount,
		StartDate:     startDate,
	}, nil
}

// amountFromValue tolerates the numeric shapes a JSON row can carry.
func amountFromValue(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid monthly_amount %q", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("invalid monthly_amount %v", value)
	}
}

func dateFromValue(value any) (time.Time, error) {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("row missing start_date")
	}
	// PostgREST serializes date columns as plain dates but timestamp
	// columns carry a time component; accept both.
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q", raw)
	}
	return parsed, nil
}
