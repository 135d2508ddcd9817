package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Port     int           `env:"PORT" envDefault:"8080"`
	Backend  string        `env:"BACKEND" envDefault:"memory"`
	Origins  []string      `env:"ORIGINS" envDefault:"*" envSeparator:","`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
	Secure   bool          `env:"SECURE"`
	RedisURL string        `env:"REDIS_URL,required"`
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    sample
		wantErr bool
	}{
		{
			name: "defaults",
			vars: map[string]string{"REDIS_URL": "localhost:6379"},
			want: sample{Port: 8080, Backend: "memory", Origins: []string{"*"}, TTL: 24 * time.Hour, RedisURL: "localhost:6379"},
		},
		{
			name: "overrides",
			vars: map[string]string{
				"PORT":      "9090",
				"BACKEND":   "redis",
				"ORIGINS":   "https://a.example,https://b.example",
				"TTL":       "90m",
				"SECURE":    "true",
				"REDIS_URL": "cache:6379",
			},
			want: sample{
				Port:     9090,
				Backend:  "redis",
				Origins:  []string{"https://a.example", "https://b.example"},
				TTL:      90 * time.Minute,
				Secure:   true,
				RedisURL: "cache:6379",
			},
		},
		{name: "missing required", vars: map[string]string{}, wantErr: true},
		{name: "bad int", vars: map[string]string{"REDIS_URL": "x", "PORT": "eighty"}, wantErr: true},
		{name: "bad duration", vars: map[string]string{"REDIS_URL": "x", "TTL": "a day"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			err := Load(&got, WithEnvironment(tt.vars))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "parse config")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("REDIS_URL", "from-process:6379")
	t.Setenv("PORT", "7000")

	var got sample
	require.NoError(t, Load(&got))
	assert.Equal(t, 7000, got.Port)
	assert.Equal(t, "from-process:6379", got.RedisURL)
}

func TestLoad_WithPrefix(t *testing.T) {
	var got sample
	err := Load(&got,
		WithPrefix("STOREFRONT_"),
		WithEnvironment(map[string]string{
			"STOREFRONT_PORT":      "9000",
			"STOREFRONT_REDIS_URL": "r:6379",
			"PORT":                 "1",
		}),
	)

	require.NoError(t, err)
	assert.Equal(t, 9000, got.Port)
	assert.Equal(t, "r:6379", got.RedisURL)
}
