package config

import (
	"flag"
	"os"
	"time"

	"github.com/adhamfakhereldeen/Cyber/internal/flagx"
)

var knownFlags = []string{
	"-a", "-m", "-d", "-s", "-t", "-l",
	"-store", "-data", "-sqlite", "-audit",
	"-patient-conflict", "-strict-refs", "-allow-delete",
	"-scheme", "-admin-password", "-login-rate", "-login-burst",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          gRPC bind address (e.g., ":50051")
//	-m string          Prometheus metrics address (empty disables)
//	-d string          PostgreSQL DSN
//	-s string          JWT HMAC secret key
//	-t int             access token validity, minutes
//	-l string          log level
//	-store string      json | sqlite | postgres
//	-data string       json backend directory
//	-sqlite string     sqlite database file
//	-audit string      audit log path
//	-patient-conflict  reject patient double-booking (bool)
//	-strict-refs       reject dangling patient/doctor references (bool)
//	-allow-delete      enable appointment deletion (bool)
//	-scheme string     password scheme for new users
//	-admin-password    bootstrap admin password
//	-login-rate float  login attempts per second per peer
//	-login-burst int   login burst per peer
//	-u, -p, -b, -g, -e S3 user, password, bucket, region, base endpoint
//
// Boolean flags should be given as -flag=value. Duration flags are given in
// minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address of the metrics endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.StoreBackend, "store", config.StoreBackend, "storage backend")
	fs.StringVar(&config.DataDir, "data", config.DataDir, "json data directory")
	fs.StringVar(&config.SQLitePath, "sqlite", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.AuditLogPath, "audit", config.AuditLogPath, "audit log path")

	fs.BoolVar(&config.PatientConflictCheck, "patient-conflict", config.PatientConflictCheck, "reject patient double-booking")
	fs.BoolVar(&config.StrictReferences, "strict-refs", config.StrictReferences, "reject dangling references")
	fs.BoolVar(&config.AllowDelete, "allow-delete", config.AllowDelete, "allow deleting appointments")

	fs.StringVar(&config.PasswordScheme, "scheme", config.PasswordScheme, "password scheme for new users")
	fs.StringVar(&config.DefaultAdminPassword, "admin-password", config.DefaultAdminPassword, "default admin password")
	fs.Float64Var(&config.LoginRateLimit, "login-rate", config.LoginRateLimit, "login attempts per second")
	fs.IntVar(&config.LoginRateBurst, "login-burst", config.LoginRateBurst, "login burst")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
}
