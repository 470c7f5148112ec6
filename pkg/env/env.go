package env

import "os"

// Get reads an environment variable, substituting fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
