package db

import (
	"os"
	"strings"
)

// IsPostgres reports whether the DSN targets postgres. Anything else is
// treated as a sqlite path (the dev/test default).
func IsPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}

// NormalizeDSN trims quotes and whitespace and, for key=value postgres form,
// supplements a missing sslmode.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if strings.Contains(lower, "host=") {
		cleaned := strings.Join(strings.Fields(s), " ")
		if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
			cleaned += " sslmode=disable"
		}
		return cleaned
	}
	return s
}

// GetNormalizedDSN fetches DATABASE_DSN and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
