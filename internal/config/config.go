package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollPolicy
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

// PayrollPolicy holds the time-accounting and deduction tunables.
// Defaults reproduce the company handbook: a 1-hour unpaid break is
// deducted from shifts of 6 hours or more, overtime starts after an
// 8-hour day at 1.25x, and statutory contributions apply only to pay
// periods covering at least 14 worked days (semi-monthly cutoff of a
// monthly contribution, hence the halving).
type PayrollPolicy struct {
	BreakDeductionThresholdHours decimal.Decimal
	BreakDeductionHours          decimal.Decimal
	StandardWorkDayHours         decimal.Decimal
	OvertimeRateMultiplier       decimal.Decimal
	MinimumDaysForDeductions     int
	StaleSessionCutoffHours      int
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "bistrohq_timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Manila"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Payroll policy
	policy, err := loadPayrollPolicy()
	if err != nil {
		return nil, err
	}
	config.Payroll = policy

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayrollPolicy() (PayrollPolicy, error) {
	policy := PayrollPolicy{}

	var err error
	if policy.BreakDeductionThresholdHours, err = getEnvDecimal("BREAK_DEDUCTION_THRESHOLD_HOURS", "6"); err != nil {
		return policy, err
	}
	if policy.BreakDeductionHours, err = getEnvDecimal("BREAK_DEDUCTION_HOURS", "1.0"); err != nil {
		return policy, err
	}
	if policy.StandardWorkDayHours, err = getEnvDecimal("STANDARD_WORK_DAY_HOURS", "8.0"); err != nil {
		return policy, err
	}
	if policy.OvertimeRateMultiplier, err = getEnvDecimal("OVERTIME_RATE_MULTIPLIER", "1.25"); err != nil {
		return policy, err
	}

	minDays, err := strconv.Atoi(getEnv("MINIMUM_DAYS_FOR_DEDUCTIONS", "14"))
	if err != nil {
		return policy, fmt.Errorf("invalid MINIMUM_DAYS_FOR_DEDUCTIONS: %w", err)
	}
	policy.MinimumDaysForDeductions = minDays

	cutoff, err := strconv.Atoi(getEnv("STALE_SESSION_CUTOFF_HOURS", "20"))
	if err != nil {
		return policy, fmt.Errorf("invalid STALE_SESSION_CUTOFF_HOURS: %w", err)
	}
	policy.StaleSessionCutoffHours = cutoff

	return policy, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.BreakDeductionThresholdHours.IsNegative() {
		return fmt.Errorf("BREAK_DEDUCTION_THRESHOLD_HOURS must be non-negative")
	}
	if c.Payroll.BreakDeductionHours.IsNegative() {
		return fmt.Errorf("BREAK_DEDUCTION_HOURS must be non-negative")
	}
	if !c.Payroll.StandardWorkDayHours.IsPositive() {
		return fmt.Errorf("STANDARD_WORK_DAY_HOURS must be positive")
	}
	if c.Payroll.OvertimeRateMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("OVERTIME_RATE_MULTIPLIER must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
