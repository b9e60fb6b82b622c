// Package env loads configuration from a .env file once at startup and
// answers lookups from that snapshot, falling back to the process
// environment so containerized deployments work without a file.
package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var Env map[string]string

// SetupEnvFile reads the first .env file it finds. Binaries run from
// the repo root and from the cmd/ subdirectories, hence the relative
// candidates. Finding none is fine: Docker and CI pass everything
// through the process environment.
func SetupEnvFile() {
	candidates := []string{
		".env",
		"../../.env", // cmd/migrate
	}
	for _, candidate := range candidates {
		if vars, err := godotenv.Read(candidate); err == nil {
			Env = vars
			return
		}
	}
	log.Printf("No .env file found, using process environment only")
}

// GetEnv returns the configured value for key. The .env snapshot wins
// over the process environment; empty values fall through to def.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok && val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
