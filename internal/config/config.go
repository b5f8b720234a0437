package config

import (
	"os"
	"strconv"
	"strings"

	"gqaudit/domain/expr"
	"gqaudit/internal/errors"
)

// Config represents the complete audit suite configuration
type Config struct {
	Grammar     GrammarConfig
	Run         RunConfig
	Calibration CalibrationConfig
	Output      OutputConfig
	Archive     ArchiveConfig
	Server      ServerConfig
}

// GrammarConfig selects the expression grammar tier and operators
type GrammarConfig struct {
	Mode                expr.Mode
	UnaryOps            []expr.UnaryOp  // empty = mode defaults
	BinaryOps           []expr.BinaryOp // empty = mode defaults
	AllowTranscendental bool            // required for mode=full
}

// RunConfig bounds the enumeration and fixes the real base set
type RunConfig struct {
	BaseSpec    string // comma-separated constants, mutually exclusive with Geometry
	Geometry    string // invariant-catalog key, e.g. "GQ(2,2)"
	MaxDepth    int
	MaxPool     int
	Seed        int64
	DedupDigits int       // significant digits of the value dedup key
	Tolerances  []float64 // percent-error ladder; empty = defaults
}

// CalibrationConfig controls null-model trials
type CalibrationConfig struct {
	TrialCount int
	NullPolicy string // "uniform-int" or "magnitude-bucket"
	Workers    int    // parallel trial workers; 0 = sequential
}

// OutputConfig holds artifact destinations
type OutputConfig struct {
	Dir       string
	WriteXLSX bool
}

// ArchiveConfig holds the optional run-archive database
type ArchiveConfig struct {
	DatabaseURL string // empty disables archiving
}

// ServerConfig holds the report-browser settings
type ServerConfig struct {
	Port string
}

// Null sampling policies. The policy materially determines the null
// distribution's tightness, so it is explicit configuration, never
// inferred.
const (
	PolicyUniformInt      = "uniform-int"
	PolicyMagnitudeBucket = "magnitude-bucket"
)

// Load reads configuration from environment variables and validates it.
// Invalid configuration is fatal before any computation begins.
func Load() (*Config, error) {
	cfg := &Config{}

	grammar, err := loadGrammarConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load grammar configuration")
	}
	cfg.Grammar = *grammar

	run, err := loadRunConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load run configuration")
	}
	cfg.Run = *run

	cal, err := loadCalibrationConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load calibration configuration")
	}
	cfg.Calibration = *cal

	cfg.Output = OutputConfig{
		Dir:       getEnvOrDefault("AUDIT_OUT_DIR", "./reports"),
		WriteXLSX: getEnvBoolOrDefault("AUDIT_XLSX", true),
	}
	cfg.Archive = ArchiveConfig{
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
	}
	cfg.Server = ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func loadGrammarConfig() (*GrammarConfig, error) {
	mode, err := expr.ParseMode(getEnvOrDefault("AUDIT_MODE", string(expr.ModeStrict)))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	unary, err := expr.ParseUnaryOps(getEnvOrDefault("AUDIT_UNARY_OPS", ""))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	binary, err := expr.ParseBinaryOps(getEnvOrDefault("AUDIT_BINARY_OPS", ""))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	allow := getEnvBoolOrDefault("AUDIT_ALLOW_TRANSCENDENTAL", false)
	if mode == expr.ModeFull && !allow {
		return nil, errors.ConfigInvalid("mode=full enables log/exp and requires AUDIT_ALLOW_TRANSCENDENTAL=1: transcendental operators degenerate hit-rate statistics")
	}

	return &GrammarConfig{
		Mode:                mode,
		UnaryOps:            unary,
		BinaryOps:           binary,
		AllowTranscendental: allow,
	}, nil
}

func loadRunConfig() (*RunConfig, error) {
	run := &RunConfig{
		BaseSpec:    getEnvOrDefault("AUDIT_BASE", ""),
		Geometry:    getEnvOrDefault("AUDIT_GEOMETRY", ""),
		MaxDepth:    getEnvIntOrDefault("AUDIT_MAX_DEPTH", 3),
		MaxPool:     getEnvIntOrDefault("AUDIT_MAX_POOL", 20000),
		Seed:        getEnvInt64OrDefault("AUDIT_SEED", 42),
		DedupDigits: getEnvIntOrDefault("AUDIT_DEDUP_TOL", 9),
	}

	if raw := getEnvOrDefault("AUDIT_TOLERANCES", ""); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, errors.ConfigInvalid("AUDIT_TOLERANCES: not a number: " + part)
			}
			run.Tolerances = append(run.Tolerances, v)
		}
	}
	return run, nil
}

func loadCalibrationConfig() (*CalibrationConfig, error) {
	policy := getEnvOrDefault("AUDIT_NULL_POLICY", PolicyUniformInt)
	switch policy {
	case PolicyUniformInt, PolicyMagnitudeBucket:
	default:
		return nil, errors.ConfigInvalid("AUDIT_NULL_POLICY must be " + PolicyUniformInt + " or " + PolicyMagnitudeBucket + ", got " + policy)
	}
	return &CalibrationConfig{
		TrialCount: getEnvIntOrDefault("AUDIT_TRIALS", 200),
		NullPolicy: policy,
		Workers:    getEnvIntOrDefault("AUDIT_WORKERS", 4),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Run.MaxDepth < 1 {
		return errors.ConfigInvalid("AUDIT_MAX_DEPTH must be >= 1")
	}
	if cfg.Run.MaxPool < 1 {
		return errors.ConfigInvalid("AUDIT_MAX_POOL must be >= 1")
	}
	if cfg.Calibration.TrialCount < 1 {
		return errors.ConfigInvalid("AUDIT_TRIALS must be >= 1")
	}
	if cfg.Calibration.Workers < 0 {
		return errors.ConfigInvalid("AUDIT_WORKERS must be >= 0")
	}
	if cfg.Run.DedupDigits < 1 || cfg.Run.DedupDigits > 15 {
		return errors.ConfigInvalid("AUDIT_DEDUP_TOL must be between 1 and 15 significant digits")
	}
	if cfg.Run.BaseSpec != "" && cfg.Run.Geometry != "" {
		return errors.ConfigInvalid("AUDIT_BASE and AUDIT_GEOMETRY are mutually exclusive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
