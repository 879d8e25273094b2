package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion        string  `mapstructure:"GENERAL_VERSION"`
	Environment           string  `mapstructure:"ENVIRONMENT"`
	ServerPort            int     `mapstructure:"SERVER_PORT"`
	DatabaseHost          string  `mapstructure:"DB_HOST"`
	DatabasePort          int     `mapstructure:"DB_PORT"`
	DatabaseName          string  `mapstructure:"DB_NAME"`
	DatabaseUser          string  `mapstructure:"DB_USER"`
	DatabasePassword      string  `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress  string  `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort     int     `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset    int     `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins      string  `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret             string  `mapstructure:"JWT_SECRET"`
	EngineTZOffsetMinutes int     `mapstructure:"ENGINE_TZ_OFFSET_MINUTES"`
	RulesCacheTTLSeconds  int     `mapstructure:"RULES_CACHE_TTL_SECONDS"`
	BonusChance           float64 `mapstructure:"BONUS_CHANCE"`
	SchedulerEnabled      bool    `mapstructure:"SCHEDULER_ENABLED"`
}

const (
	DefaultEngineTZOffsetMinutes = 330 // UTC+05:30
	DefaultRulesCacheTTLSeconds  = 60
	DefaultBonusChance           = 0.15
)

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS", "JWT_SECRET",
	"ENGINE_TZ_OFFSET_MINUTES", "RULES_CACHE_TTL_SECONDS", "BONUS_CHANCE", "SCHEDULER_ENABLED",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST")
	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"engineTZOffsetMinutes", config.EngineTZOffsetMinutes,
	)
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("SERVER_PORT", 8288)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_CACHE_PORT", 6379)
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("ENGINE_TZ_OFFSET_MINUTES", DefaultEngineTZOffsetMinutes)
	v.SetDefault("RULES_CACHE_TTL_SECONDS", DefaultRulesCacheTTLSeconds)
	v.SetDefault("BONUS_CHANCE", DefaultBonusChance)
	v.SetDefault("SCHEDULER_ENABLED", false)
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	// Fixed offsets only; real zones east of +14:00 or west of -12:00 do not exist.
	if config.EngineTZOffsetMinutes < -12*60 || config.EngineTZOffsetMinutes > 14*60 {
		return log.Error(
			"Fatal error: invalid engine timezone offset",
			"offsetMinutes", config.EngineTZOffsetMinutes,
		)
	}

	if config.RulesCacheTTLSeconds <= 0 {
		return log.Error(
			"Fatal error: invalid rules cache ttl",
			"ttlSeconds", config.RulesCacheTTLSeconds,
		)
	}

	if config.BonusChance < 0 || config.BonusChance > 1 {
		return log.Error(
			"Fatal error: bonus chance must be between 0 and 1",
			"bonusChance", config.BonusChance,
		)
	}

	return nil
}

// RulesCacheTTL is the rule overlay cache window.
func (c Config) RulesCacheTTL() time.Duration {
	return time.Duration(c.RulesCacheTTLSeconds) * time.Second
}

// EngineLocation is the fixed-offset zone that defines the engine's calendar day.
func (c Config) EngineLocation() *time.Location {
	return time.FixedZone("engine", c.EngineTZOffsetMinutes*60)
}
