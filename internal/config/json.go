package config

import (
	"encoding/json"
	"os"

	"github.com/adhamfakhereldeen/Cyber/internal/flagx"
	"github.com/adhamfakhereldeen/Cyber/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	StoreBackend string `json:"store_backend"`
	DataDir      string `json:"data_dir"`
	SQLitePath   string `json:"sqlite_path"`
	DatabaseDSN  string `json:"database_dsn"`
	AuditLogPath string `json:"audit_log_path"`
	LogLevel     string `json:"log_level"`

	PatientConflictCheck bool `json:"patient_conflict_check"`
	StrictReferences     bool `json:"strict_references"`
	AllowDelete          bool `json:"allow_delete"`

	PasswordScheme       string `json:"password_scheme"`
	DefaultAdminPassword string `json:"default_admin_password"`

	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	MetricsAddr                 string         `json:"metrics_addr"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LoginRateLimit              float64        `json:"login_rate_limit"`
	LoginRateBurst              int            `json:"login_rate_burst"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config into config. Keys missing
// from the file keep their current values. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	// seed with current values so absent keys are left alone
	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.StoreBackend = c.StoreBackend
	config.DataDir = c.DataDir
	config.SQLitePath = c.SQLitePath
	config.DatabaseDSN = c.DatabaseDSN
	config.AuditLogPath = c.AuditLogPath
	config.LogLevel = c.LogLevel
	config.PatientConflictCheck = c.PatientConflictCheck
	config.StrictReferences = c.StrictReferences
	config.AllowDelete = c.AllowDelete
	config.PasswordScheme = c.PasswordScheme
	config.DefaultAdminPassword = c.DefaultAdminPassword
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.MetricsAddr = c.MetricsAddr
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.LoginRateLimit = c.LoginRateLimit
	config.LoginRateBurst = c.LoginRateBurst
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}

func toJson(config *Config) *JsonConfig {
	return &JsonConfig{
		StoreBackend:                config.StoreBackend,
		DataDir:                     config.DataDir,
		SQLitePath:                  config.SQLitePath,
		DatabaseDSN:                 config.DatabaseDSN,
		AuditLogPath:                config.AuditLogPath,
		LogLevel:                    config.LogLevel,
		PatientConflictCheck:        config.PatientConflictCheck,
		StrictReferences:            config.StrictReferences,
		AllowDelete:                 config.AllowDelete,
		PasswordScheme:              config.PasswordScheme,
		DefaultAdminPassword:        config.DefaultAdminPassword,
		EndpointAddrGRPC:            config.EndpointAddrGRPC,
		MetricsAddr:                 config.MetricsAddr,
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		LoginRateLimit:              config.LoginRateLimit,
		LoginRateBurst:              config.LoginRateBurst,
		S3RootUser:                  config.S3RootUser,
		S3RootPassword:              config.S3RootPassword,
		S3Bucket:                    config.S3Bucket,
		S3Region:                    config.S3Region,
		S3BaseEndpoint:              config.S3BaseEndpoint,
	}
}
