package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Store:     StoreConfig{Driver: StoreDriverMemory},
		Scheduler: SchedulerConfig{Interval: 15 * time.Minute, Timeout: 10 * time.Minute, Workers: 4},
		Outreach:  OutreachConfig{ProviderTimeout: 10 * time.Second},
		JWT:       JWTConfig{SecretKey: "0123456789abcdef0123456789abcdef"},
		Encrypter: EncrypterConfig{Key: "0123456789abcdef"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validate(validConfig()))

	tcs := map[string]func(c *Config){
		"short jwt":          func(c *Config) { c.JWT.SecretKey = "short" },
		"bad encrypt key":    func(c *Config) { c.Encrypter.Key = "abc" },
		"unknown driver":     func(c *Config) { c.Store.Driver = "mongo" },
		"timeout > interval": func(c *Config) { c.Scheduler.Timeout = time.Hour },
		"no workers":         func(c *Config) { c.Scheduler.Workers = 0 },
		"ses without from":   func(c *Config) { c.SES.Enabled = true },
	}
	for name, mutate := range tcs {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			assert.Error(t, validate(c))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("ENCRYPT_KEY", "0123456789abcdef")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ACTION_APPROVAL_REQUIRED", "ESCALATE,REATTEMPT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, 10*time.Second, cfg.Outreach.ProviderTimeout)
	assert.Equal(t, 30, cfg.Outreach.SendRateLimit)
	assert.Equal(t, "ndr.events", cfg.Kafka.EventTopic)
	assert.Equal(t, []string{"ESCALATE", "REATTEMPT"}, cfg.Action.ApprovalRequired)
}
