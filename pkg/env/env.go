// Package env reads raw process environment variables for the few settings
// needed before the typed configuration has been loaded.
package env

import "os"

// Get returns the value of key, or fallback when the variable is unset or
// blank.
func Get(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}
