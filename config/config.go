package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a local .env file when present. In deployed
// environments the variables come from the platform, so a missing file is fine.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
}
