package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears keys for the test; t.Setenv restores the previous values afterwards.
func unset(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://localhost:27017")
}

func TestNewConfig_Defaults(t *testing.T) {
	setRequired(t)
	unset(t, "SEQUENCE_BACKEND", "ADDRESS", "JWT_EXPIRE_MINUTES", "MONGODB_DBNAME", "INIT_COUNTERS", "RATING_RECONCILE_INTERVAL")

	cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 30, cfg.JwtExpireMinutes)
	assert.Equal(t, "ExplorerHub", cfg.MongoDB_DBName)
	assert.Equal(t, SequenceBackendMongo, cfg.SequenceBackend)
	assert.True(t, cfg.InitCounters)
	assert.Equal(t, 60, cfg.RatingReconcile_Interval)
}

func TestNewConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "JWT_SECRET=file-secret\nMONGODB_CONNECTION_URI=mongodb://db:27017\nSEQUENCE_BACKEND=Redis\nREDIS_ADDR=cache:6379\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	unset(t, "JWT_SECRET", "MONGODB_CONNECTION_URI", "SEQUENCE_BACKEND", "REDIS_ADDR")

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.JwtSecret)
	assert.Equal(t, SequenceBackendRedis, cfg.SequenceBackend)
	assert.Equal(t, "cache:6379", cfg.Redis_Addr)
}

func TestNewConfig_MissingRequired(t *testing.T) {
	unset(t, "JWT_SECRET")
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://localhost:27017")

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Configuration{
		JwtExpireMinutes:      30,
		RateLimit_Enabled:     true,
		RateLimit_Window:      60,
		SequenceBackend:       SequenceBackendMongo,
		DynamoDB_CounterTable: "counters",
		AWS_Region:            "us-east-1",
	}
	require.NoError(t, base.Validate())

	unknown := base
	unknown.SequenceBackend = "etcd"
	assert.ErrorContains(t, unknown.Validate(), "unknown SEQUENCE_BACKEND")

	sqlite := base
	sqlite.SequenceBackend = SequenceBackendSQLite
	assert.ErrorContains(t, sqlite.Validate(), "SQLITE_COUNTER_PATH")

	dynamo := base
	dynamo.SequenceBackend = SequenceBackendDynamoDB
	dynamo.DynamoDB_CounterTable = ""
	assert.ErrorContains(t, dynamo.Validate(), "DYNAMODB_COUNTER_TABLE")

	expiry := base
	expiry.JwtExpireMinutes = 0
	assert.ErrorContains(t, expiry.Validate(), "JWT_EXPIRE_MINUTES")

	credentials := base
	credentials.CORS_AllowCredentials = true
	credentials.CORS_Origins = "*"
	assert.ErrorContains(t, credentials.Validate(), "CORS_ALLOW_CREDENTIALS")
	credentials.CORS_Origins = ""
	assert.ErrorContains(t, credentials.Validate(), "CORS_ALLOW_CREDENTIALS")
	credentials.CORS_Origins = "https://app.example, *"
	assert.ErrorContains(t, credentials.Validate(), "CORS_ALLOW_CREDENTIALS")
	credentials.CORS_Origins = "https://app.example"
	assert.NoError(t, credentials.Validate())

	reconcile := base
	reconcile.RatingReconcile_Interval = -1
	assert.ErrorContains(t, reconcile.Validate(), "RATING_RECONCILE_INTERVAL")
}

func TestNewConfig_RejectsCredentialsWithWildcardOrigin(t *testing.T) {
	setRequired(t)
	unset(t, "CORS_ORIGINS", "SEQUENCE_BACKEND")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "CORS_ORIGINS")
}

func TestCORSOriginList(t *testing.T) {
	assert.Equal(t, []string{"*"}, (&Configuration{CORS_Origins: " * "}).CORSOriginList())
	assert.Equal(t, []string{"*"}, (&Configuration{}).CORSOriginList())
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		(&Configuration{CORS_Origins: "https://a.example, https://b.example,"}).CORSOriginList())
}
