package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // godotenv loads a .env file into the process environment
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Optional values fall back to hardcoded defaults
// so a bare development environment still boots; only the values that
// cannot be guessed (database name, JWT secret) are required.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	UploadDir      string // directory where attachment files are stored
	MaxUploadBytes int64  // maximum accepted size per uploaded file

	AdminEmail string // address receiving due-soon and overdue notifications
	SMTPHost   string // SMTP server host
	SMTPPort   int    // SMTP server port
	SMTPUser   string // SMTP username (empty disables auth)
	SMTPPass   string // SMTP password
	SMTPFrom   string // From address on outgoing mail

	AuditDueSoonDays int // window in days for "audit due soon" reminders
	FindingLeadDays  int // exact lead time in days for finding target reminders
}

// Load reads configuration values from the environment (and a .env file if
// one is present) and returns a Config. Required variables are enforced by
// must() and missing values cause the program to exit with a fatal log
// message.
func Load() Config {
	_ = godotenv.Load() // best effort; real deployments set the environment directly

	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "8080"),
		DBUser:       getenv("DB_USER", "root"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       getenv("DB_HOST", "localhost"),
		DBPort:       getenv("DB_PORT", "3306"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: atoi(getenv("ACCESS_TOKEN_TTL_MIN", "60")),
		BcryptCost:   atoi(getenv("BCRYPT_COST", "10")),

		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(atoi(getenv("MAX_UPLOAD_BYTES", "10485760"))),

		AdminEmail: getenv("ADMIN_EMAIL", "admin@localhost"),
		SMTPHost:   getenv("SMTP_HOST", "localhost"),
		SMTPPort:   atoi(getenv("SMTP_PORT", "587")),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		SMTPFrom:   getenv("SMTP_FROM", "audit-tracker@localhost"),

		AuditDueSoonDays: atoi(getenv("AUDIT_DUE_SOON_DAYS", "30")),
		FindingLeadDays:  atoi(getenv("FINDING_LEAD_DAYS", "7")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the environment value for key, or def when unset/empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// atoi converts s to an int, returning 0 when conversion fails. Callers
// pass strings that already carry a sane default via getenv.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
