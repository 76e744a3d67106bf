package env

import "os"

// Get reads key from the environment, falling back when it is unset or blank.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
