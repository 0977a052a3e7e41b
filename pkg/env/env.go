package env

import "os"

// Get reads an environment variable, falling back when unset or empty. An
// empty value is treated the same as an unset one.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
