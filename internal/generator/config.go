package generator

// Config controls demo dataset generation.
type Config struct {
	NumAccounts    int
	MaxSIPsPerUser int
	// ReenrollChance is the probability that a SIP reuses a scheme the
	// account already enrolled in, exercising the multi-record-per-scheme
	// path of the summary.
	ReenrollChance float64
	// FutureChance is the probability that a SIP starts in the future.
	FutureChance float64
	// MonthsBack bounds how far in the past start dates may fall.
	MonthsBack int
	Seed       int64
}

// DefaultConfig returns the generation defaults used by the datagen tool.
func DefaultConfig() Config {
	return Config{
		NumAccounts:    25,
		MaxSIPsPerUser: 4,
		ReenrollChance: 0.2,
		FutureChance:   0.05,
		MonthsBack:     36,
		Seed:           42,
	}
}
