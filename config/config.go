package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the process reads from the environment. It is
// built once at startup and passed by value; nothing else reads os.Getenv.
type Config struct {
	Port string

	DatabaseDSN string

	JWTKey      string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	StripeSecretKey string
	GoogleClientID  string

	SupabaseProjectURL string
	SupabaseAPIKey     string
	SupabaseBucket     string

	CORSOrigins []string

	AllowRepeatPurchase bool
}

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// Load builds a Config from the current environment, failing fast on any
// missing required variable.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		JWTIssuer:           getEnv("JWT_ISSUER", "codemart"),
		JWTAudience:         getEnv("JWT_AUDIENCE", "codemart-clients"),
		TokenTTL:            time.Duration(getEnvInt("JWT_ACCESS_TOKEN_EXPIRATION_MINUTES", 60)) * time.Minute,
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		SupabaseBucket:      getEnv("SUPABASE_BUCKET", "projects"),
		CORSOrigins:         SplitOrigins(os.Getenv("CORS_ORIGINS")),
		AllowRepeatPurchase: getEnvBool("ALLOW_REPEAT_PURCHASE", true),
	}

	var missing []string
	for key, dst := range map[string]*string{
		"JWT_KEY":              &cfg.JWTKey,
		"SUPABASE_PROJECT_URL": &cfg.SupabaseProjectURL,
		"SUPABASE_API_KEY":     &cfg.SupabaseAPIKey,
	} {
		*dst = os.Getenv(key)
		if *dst == "" {
			missing = append(missing, key)
		}
	}

	rawDSN := os.Getenv("DB_CONNECTION_STRING")
	if rawDSN == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	dsn, err := NormalizeDSN(rawDSN)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONNECTION_STRING: %w", err)
	}
	cfg.DatabaseDSN = dsn

	return cfg, nil
}

// NormalizeDSN accepts either a postgres:// URI or a key-value connection
// string and returns a key-value DSN with the host resolved to an IPv4
// address, so the driver never dials a dual-stack hostname.
func NormalizeDSN(raw string) (string, error) {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return normalizeURI(raw)
	}
	return normalizeKeyValue(raw)
}

func normalizeURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "5432"
	}

	pairs := []string{
		"host=" + resolveIPv4(host),
		"port=" + port,
	}
	if u.User != nil {
		pairs = append(pairs, "user="+u.User.Username())
		if password, ok := u.User.Password(); ok {
			pairs = append(pairs, "password="+password)
		}
	}
	if dbname := strings.TrimPrefix(u.Path, "/"); dbname != "" {
		pairs = append(pairs, "dbname="+dbname)
	}
	sslmode := u.Query().Get("sslmode")
	if sslmode == "" {
		sslmode = "require"
	}
	pairs = append(pairs, "sslmode="+sslmode)

	return strings.Join(pairs, " "), nil
}

func normalizeKeyValue(raw string) (string, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty connection string")
	}
	sawHost := false
	for i, field := range fields {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return "", fmt.Errorf("malformed connection string entry %q", field)
		}
		if key == "host" {
			fields[i] = "host=" + resolveIPv4(value)
			sawHost = true
		}
	}
	if !sawHost {
		return "", fmt.Errorf("connection string has no host")
	}
	return strings.Join(fields, " "), nil
}

// resolveIPv4 returns the first A record for host, or the host unchanged
// when it is already an address or lookup fails (the driver will surface the
// real connection error).
func resolveIPv4(host string) string {
	if ip := net.ParseIP(host); ip != nil {
		return host
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return host
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return host
}

// SplitOrigins parses a comma-separated origin list, falling back to the
// localhost development origins when empty.
func SplitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), defaultCORSOrigins...)
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	asInt, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return asInt
}

func getEnvBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return asBool
}
