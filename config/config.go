// Package config holds the immutable, explicitly-passed configuration that
// the reference PostgreSQL extension reads from GUC (config-variable
// registry) globals. coreseq has no process-global configuration registry
// of its own: every package that needs a tunable takes a Config value
// explicitly (spec.md §9 "Global state as opaque config struct").
package config

// Config controls k-mer extraction, high-frequency analysis, and match
// scoring. All fields correspond 1:1 to the conceptual options in
// spec.md §6.
//
// A Config is immutable once constructed: mutate a copy and revalidate,
// never mutate a Config shared across goroutines.
type Config struct {
	// KmerSize is k, the length in bases of each extracted k-mer.
	// Range: 4-64. Default: 16.
	KmerSize int

	// OccurrenceBits is b, the number of bits used to encode
	// occurrence-within-row in the numbered key. Range: 0-16. Default: 8.
	OccurrenceBits int

	// MaxAppearanceRate is r: a k-mer appearing in more than this fraction
	// of rows is high-frequency. Range: 0-1. Default: 0.5.
	MaxAppearanceRate float64

	// MaxAppearanceRows is N: a k-mer appearing in more than this many rows
	// is high-frequency, regardless of rate. 0 disables this bound. Default: 0.
	MaxAppearanceRows int64

	// MinScore is s_min, the minimum shared-k-mer count for a match.
	// Range: >= 0. Default: 1.
	MinScore int

	// MinSharedRate is r_min, the minimum shared/query-total ratio for a
	// match. Range: 0-1. Default: 0.9.
	MinSharedRate float64

	// PrecludeHighFreq enables the indexing-time filter that drops keys
	// whose canonical prefix is a cached high-frequency k-mer. Default: false.
	PrecludeHighFreq bool

	// AnalysisBatchSize is the number of rows per analyzer work unit
	// (storage-block granularity). Range: 1000-1,000,000. Default: 10000.
	AnalysisBatchSize int
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		KmerSize:          16,
		OccurrenceBits:    8,
		MaxAppearanceRate: 0.5,
		MaxAppearanceRows: 0,
		MinScore:          1,
		MinSharedRate:     0.9,
		PrecludeHighFreq:  false,
		AnalysisBatchSize: 10000,
	}
}

// Validate checks that every field is within the range spec.md §6 defines.
// Returns a *ConfigError naming the first field out of range.
func (c Config) Validate() error {
	if c.KmerSize < 4 || c.KmerSize > 64 {
		return &ConfigError{Field: "KmerSize", Message: "must be between 4 and 64"}
	}
	if c.OccurrenceBits < 0 || c.OccurrenceBits > 16 {
		return &ConfigError{Field: "OccurrenceBits", Message: "must be between 0 and 16"}
	}
	if c.MaxAppearanceRate < 0 || c.MaxAppearanceRate > 1 {
		return &ConfigError{Field: "MaxAppearanceRate", Message: "must be between 0 and 1"}
	}
	if c.MaxAppearanceRows < 0 {
		return &ConfigError{Field: "MaxAppearanceRows", Message: "must be >= 0"}
	}
	if c.MinScore < 0 {
		return &ConfigError{Field: "MinScore", Message: "must be >= 0"}
	}
	if c.MinSharedRate < 0 || c.MinSharedRate > 1 {
		return &ConfigError{Field: "MinSharedRate", Message: "must be between 0 and 1"}
	}
	if c.AnalysisBatchSize < 1000 || c.AnalysisBatchSize > 1_000_000 {
		return &ConfigError{Field: "AnalysisBatchSize", Message: "must be between 1,000 and 1,000,000"}
	}
	return nil
}

// KeyWidth reports the raw-integer width in bits for this k: ≤8 -> 16,
// ≤16 -> 32, else 64. It agrees with the extractor for k<=32; for k>32
// KeyWidth still reports 64, while the extractor emits no raw-integer form.
func (c Config) KeyWidth() int {
	switch {
	case c.KmerSize <= 8:
		return 16
	case c.KmerSize <= 16:
		return 32
	default:
		return 64
	}
}

// NumberedBitLen returns 2k+b, the bit length of a numbered key.
func (c Config) NumberedBitLen() int {
	return 2*c.KmerSize + c.OccurrenceBits
}

// MaxOccurrence returns 2^b, the occurrence ceiling past which the
// extractor drops additional windows of the same k-mer (spec.md §4.2, §9:
// drop-on-overflow, not saturate).
func (c Config) MaxOccurrence() uint32 {
	return uint32(1) << uint(c.OccurrenceBits)
}

// ConfigError represents an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "coreseq: invalid config: " + e.Field + ": " + e.Message
}
