package config

import (
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:            8288,
		JWTSecret:             "secret",
		EngineTZOffsetMinutes: DefaultEngineTZOffsetMinutes,
		RulesCacheTTLSeconds:  DefaultRulesCacheTTLSeconds,
		BonusChance:           DefaultBonusChance,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "offset too far east", mutate: func(c *Config) { c.EngineTZOffsetMinutes = 15 * 60 }, wantErr: true},
		{name: "negative offset", mutate: func(c *Config) { c.EngineTZOffsetMinutes = -5 * 60 }},
		{name: "zero ttl", mutate: func(c *Config) { c.RulesCacheTTLSeconds = 0 }, wantErr: true},
		{name: "bonus never", mutate: func(c *Config) { c.BonusChance = 0 }},
		{name: "bonus above one", mutate: func(c *Config) { c.BonusChance = 1.5 }, wantErr: true},
	}

	log := logger.New("config_test")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := validateConfig(config, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	config := validConfig()

	assert.Equal(t, time.Minute, config.RulesCacheTTL())

	_, offset := time.Date(2024, 3, 10, 0, 0, 0, 0, config.EngineLocation()).Zone()
	assert.Equal(t, 330*60, offset)
}
