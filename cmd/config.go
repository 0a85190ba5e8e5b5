package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"production_advisor/internal/advisor"
	"production_advisor/internal/normalize"
	"production_advisor/internal/service"
	"production_advisor/internal/source"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "PA"

	// devSigningKey is only acceptable for local runs; serve warns when it is in use.
	devSigningKey = "dev-only-change-me"
)

// appConfig is the resolved configuration of one process.
type appConfig struct {
	Port     string
	LogLevel string
	DBPath   string

	Auth         service.AuthConfig
	Advisor      advisor.Config
	Source       source.Config
	SourceShape  normalize.Shape
	PollInterval time.Duration
	TopN         int
}

// newViper returns a viper instance with defaults and PA_ environment overrides.
// PA_SOURCE_BASE_URL overrides source.base_url.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	adv := advisor.DefaultConfig()
	src := source.DefaultConfig()

	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "advisor.db")

	v.SetDefault("auth.signing_key", devSigningKey)
	v.SetDefault("auth.token_ttl", service.DefaultTokenTTL)

	v.SetDefault("advisor.hours_available_per_window", adv.HoursAvailablePerWindow)
	v.SetDefault("advisor.critical_within_days", adv.CriticalWithinDays)
	v.SetDefault("advisor.high_within_days", adv.HighWithinDays)
	v.SetDefault("advisor.operation_match", string(adv.OperationMatch))
	v.SetDefault("advisor.concurrent_detectors", adv.ConcurrentDetectors)
	v.SetDefault("advisor.idle_action", adv.IdleAction)
	v.SetDefault("advisor.overload_action", adv.OverloadAction)
	v.SetDefault("advisor.critical_action", adv.CriticalAction)
	v.SetDefault("advisor.high_action", adv.HighAction)

	v.SetDefault("source.base_url", "")
	v.SetDefault("source.orders_path", src.OrdersPath)
	v.SetDefault("source.machines_path", src.MachinesPath)
	v.SetDefault("source.schedule_path", src.SchedulePath)
	v.SetDefault("source.shape", string(normalize.ShapeKera))
	v.SetDefault("source.timeout", src.Timeout)
	v.SetDefault("source.max_retries", src.MaxRetries)
	v.SetDefault("source.backoff_slot", src.BackoffSlot)
	v.SetDefault("source.backoff_max", src.BackoffMax)
	v.SetDefault("source.cache_ttl", src.CacheTTL)

	v.SetDefault("analysis.poll_interval", time.Duration(0))
	v.SetDefault("analysis.top_n", 10)
}

// readConfigFile loads path, or configs/config.yml when path is empty.
// A missing default file is not an error; defaults and environment still apply.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// resolveConfig turns viper settings into typed configuration and validates it.
func resolveConfig(v *viper.Viper) (appConfig, error) {
	mode, err := advisor.ParseMatchMode(v.GetString("advisor.operation_match"))
	if err != nil {
		return appConfig{}, err
	}
	adv := advisor.Config{
		HoursAvailablePerWindow: v.GetFloat64("advisor.hours_available_per_window"),
		CriticalWithinDays:      v.GetInt("advisor.critical_within_days"),
		HighWithinDays:          v.GetInt("advisor.high_within_days"),
		OperationMatch:          mode,
		ConcurrentDetectors:     v.GetBool("advisor.concurrent_detectors"),
		IdleAction:              v.GetString("advisor.idle_action"),
		OverloadAction:          v.GetString("advisor.overload_action"),
		CriticalAction:          v.GetString("advisor.critical_action"),
		HighAction:              v.GetString("advisor.high_action"),
	}
	if err := adv.Validate(); err != nil {
		return appConfig{}, err
	}

	shape, err := normalize.ParseShape(v.GetString("source.shape"))
	if err != nil {
		return appConfig{}, err
	}

	poll := v.GetDuration("analysis.poll_interval")
	if poll < 0 {
		return appConfig{}, fmt.Errorf("analysis.poll_interval must not be negative, got %s", poll)
	}
	topN := v.GetInt("analysis.top_n")
	if topN < 0 {
		return appConfig{}, fmt.Errorf("analysis.top_n must not be negative, got %d", topN)
	}

	return appConfig{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		DBPath:   v.GetString("db.path"),
		Auth: service.AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		Advisor: adv,
		Source: source.Config{
			BaseURL:      v.GetString("source.base_url"),
			OrdersPath:   v.GetString("source.orders_path"),
			MachinesPath: v.GetString("source.machines_path"),
			SchedulePath: v.GetString("source.schedule_path"),
			Timeout:      v.GetDuration("source.timeout"),
			MaxRetries:   v.GetInt("source.max_retries"),
			BackoffSlot:  v.GetDuration("source.backoff_slot"),
			BackoffMax:   v.GetDuration("source.backoff_max"),
			CacheTTL:     v.GetDuration("source.cache_ttl"),
		},
		SourceShape:  shape,
		PollInterval: poll,
		TopN:         topN,
	}, nil
}

// bindFlags binds command-line flags to config keys so flags win over file and environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
