package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvFile is the dotenv file read by parseEnv. Variables already present in
// the process environment win over the file.
var EnvFile = ".env"

// parseEnv overlays CLINIC_* environment variables. A missing .env file is
// not an error; a malformed value panics, matching the other stages.
func parseEnv(config *Config) {
	_ = godotenv.Load(EnvFile)

	envString("CLINIC_STORE_BACKEND", &config.StoreBackend)
	envString("CLINIC_DATA_DIR", &config.DataDir)
	envString("CLINIC_SQLITE_PATH", &config.SQLitePath)
	envString("CLINIC_DATABASE_DSN", &config.DatabaseDSN)
	envString("CLINIC_AUDIT_LOG_PATH", &config.AuditLogPath)
	envString("CLINIC_LOG_LEVEL", &config.LogLevel)

	envBool("CLINIC_PATIENT_CONFLICT_CHECK", &config.PatientConflictCheck)
	envBool("CLINIC_STRICT_REFERENCES", &config.StrictReferences)
	envBool("CLINIC_ALLOW_DELETE", &config.AllowDelete)

	envString("CLINIC_PASSWORD_SCHEME", &config.PasswordScheme)
	envString("CLINIC_DEFAULT_ADMIN_PASSWORD", &config.DefaultAdminPassword)

	envString("CLINIC_GRPC_ADDR", &config.EndpointAddrGRPC)
	envString("CLINIC_METRICS_ADDR", &config.MetricsAddr)
	envString("CLINIC_SECRET_KEY", &config.SecretKey)
	envDuration("CLINIC_ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	envFloat("CLINIC_LOGIN_RATE_LIMIT", &config.LoginRateLimit)
	envInt("CLINIC_LOGIN_RATE_BURST", &config.LoginRateBurst)

	envString("CLINIC_S3_ROOT_USER", &config.S3RootUser)
	envString("CLINIC_S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("CLINIC_S3_BUCKET", &config.S3Bucket)
	envString("CLINIC_S3_REGION", &config.S3Region)
	envString("CLINIC_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = b
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = n
}

func envFloat(key string, dst *float64) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = f
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}
