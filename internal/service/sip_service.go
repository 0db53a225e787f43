package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/saps13/sip/internal/apperr"
	"github.com/saps13/sip/internal/domain"
	"github.com/saps13/sip/internal/supabase"
)

// emailDomain is the fixed suffix appended when deriving the
// identity-provider contact address from a username.
const emailDomain = "gmail.com"

// IdentityGateway is the identity-provider contract required by the service.
type IdentityGateway interface {
	SignUp(ctx context.Context, creds supabase.Credentials) (supabase.Account, error)
	AccountByID(ctx context.Context, id string) (supabase.Account, error)
}

// RecordRepository is the storage contract required by the service.
type RecordRepository interface {
	InsertRecord(ctx context.Context, rec domain.InvestmentRecord) error
	RecordsByUser(ctx context.Context, userID string) ([]domain.InvestmentRecord, error)
}

// SIPService orchestrates signup, SIP creation, and summary computation,
// delegating identity and persistence to the injected collaborators.
type SIPService struct {
	gateway IdentityGateway
	repo    RecordRepository
	nowFn   func() time.Time
}

// NewSIPService constructs a SIPService.
func NewSIPService(gateway IdentityGateway, repo RecordRepository) *SIPService {
	return &SIPService{
		gateway: gateway,
		repo:    repo,
		nowFn:   time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *SIPService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// SignupInput carries a signup request.
type SignupInput struct {
	Username string
	Password string
	Metadata map[string]any
}

// SignupResult reports the created account.
type SignupResult struct {
	UserID string
	Email  string
}

// SignUp validates credentials, derives the provider contact address from
// the username, and registers the account. Provider failures (duplicate
// account, rejected credential, transport) surface with their message
// intact; nothing is retried.
func (s *SIPService) SignUp(ctx context.Context, input SignupInput) (SignupResult, error) {
	username := strings.TrimSpace(input.Username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return SignupResult{}, apperr.New(apperr.KindValidation, "username must be 3-50 characters")
	}
	if utf8.RuneCountInString(input.Password) < 6 {
		return SignupResult{}, apperr.New(apperr.KindValidation, "password must be at least 6 characters")
	}

	account, err := s.gateway.SignUp(ctx, supabase.Credentials{
		Email:    EmailFromUsername(username),
		Password: input.Password,
		Metadata: input.Metadata,
	})
	if err != nil {
		return SignupResult{}, apperr.Wrap(apperr.KindCollaborator, err)
	}

	return SignupResult{UserID: account.ID, Email: account.Email}, nil
}

// CreateSIPInput carries a SIP enrollment request.
type CreateSIPInput struct {
	UserID        string
	SchemeName    string
	MonthlyAmount int64
	StartDate     time.Time
}

// CreateSIP resolves the user and stores one immutable investment record.
// Future start dates are accepted; the summary reports them as negative
// elapsed months.
func (s *SIPService) CreateSIP(ctx context.Context, input CreateSIPInput) error {
	if input.UserID == "" {
		return apperr.New(apperr.KindValidation, "user_id is required")
	}
	if strings.TrimSpace(input.SchemeName) == "" {
		return apperr.New(apperr.KindValidation, "scheme_name is required")
	}
	if input.MonthlyAmount <= 0 {
		return apperr.New(apperr.KindValidation, "monthly_amount must be positive")
	}

	if err := s.resolveUser(ctx, input.UserID); err != nil {
		return err
	}

	err := s.repo.InsertRecord(ctx, domain.InvestmentRecord{
		UserID:        input.UserID,
		SchemeName:    input.SchemeName,
		MonthlyAmount: input.MonthlyAmount,
		StartDate:     input.StartDate,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindCollaborator, err)
	}
	return nil
}

// Summary resolves the user, fetches their records in store order, and
// aggregates them against the current date.
func (s *SIPService) Summary(ctx context.Context, userID string) (domain.InvestmentSummary, error) {
	if userID == "" {
		return domain.InvestmentSummary{}, apperr.New(apperr.KindValidation, "user_id is required")
	}

	if err := s.resolveUser(ctx, userID); err != nil {
		return domain.InvestmentSummary{}, err
	}

	records, err := s.repo.RecordsByUser(ctx, userID)
	if err != nil {
		return domain.InvestmentSummary{}, apperr.Wrap(apperr.KindCollaborator, err)
	}

	return Aggregate(records, s.nowFn()), nil
}

func (s *SIPService) resolveUser(ctx context.Context, userID string) error {
	_, err := s.gateway.AccountByID(ctx, userID)
	if errors.Is(err, supabase.ErrAccountNotFound) {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindCollaborator, err)
	}
	return nil
}

// EmailFromUsername derives the synthetic provider contact address:
// the username's alphanumeric runes lower-cased, plus the fixed domain.
func EmailFromUsername(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String() + "@" + emailDomain
}
