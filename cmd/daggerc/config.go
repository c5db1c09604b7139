package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// config is daggerc's environment-derived configuration.
type config struct {
	Manifest string
	Debug    bool
}

// loadConfig reads .env (if present) and populates a config from
// environment variables. Missing files are non-fatal: production runs
// rely on real environment variables.
func loadConfig(envFiles ...string) config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	_ = godotenv.Load(files...)

	return config{
		Manifest: env("DAGGERC_MANIFEST", "dagger.yaml"),
		Debug:    envBool("DAGGERC_DEBUG", false),
	}
}

// env returns a raw env value, falling back to defaultVal.
func env(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultVal
}

// envBool parses a boolean env value, falling back to defaultVal on
// absence or parse failure.
func envBool(key string, defaultVal bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
