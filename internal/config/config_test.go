package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "STORE_BACKEND", "DATABASE_URL", "BUYERS_FILE", "MONGO_URI", "MONGO_DATABASE",
	"CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT", "DEFAULT_SELLER_ID",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.False(t, cfg.Mongo.Enabled())
	assert.Equal(t, "unknown-seller", cfg.Offers.DefaultSellerID)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", " https://admin.example.com , ,")
	t.Setenv("DEFAULT_SELLER_ID", "seller-9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, StorePostgres, cfg.Store.Backend)
	assert.True(t, cfg.Mongo.Enabled())
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "seller-9", cfg.Offers.DefaultSellerID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"PORT", "eighty", "invalid PORT"},
		{"PORT", "70000", "out of range"},
		{"SHUTDOWN_TIMEOUT", "soon", "invalid SHUTDOWN_TIMEOUT"},
		{"STORE_BACKEND", "redis", "invalid STORE_BACKEND"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseEnvFile(t *testing.T) {
	t.Setenv("DASM_EXISTING", "keep")
	t.Setenv("DASM_PLAIN", "")
	os.Unsetenv("DASM_PLAIN")
	t.Setenv("DASM_QUOTED", "")
	os.Unsetenv("DASM_QUOTED")

	input := strings.Join([]string{
		"\ufeff# comment",
		"DASM_PLAIN=value",
		"export DASM_QUOTED='quoted value'",
		"DASM_EXISTING=override",
		"not a pair",
		"=missing-key",
	}, "\n")
	require.NoError(t, parseEnvFile(strings.NewReader(input)))

	assert.Equal(t, "value", os.Getenv("DASM_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("DASM_QUOTED"))
	assert.Equal(t, "keep", os.Getenv("DASM_EXISTING"))
}

func TestFindEnvFile_WalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("X=1\n"), 0o600))

	assert.Equal(t, filepath.Join(root, ".env"), findEnvFile(nested))
	assert.Equal(t, "", findEnvFile(t.TempDir()))
}
