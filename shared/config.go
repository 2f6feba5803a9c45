package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvFileVar names an optional dotenv file loaded before any other lookup.
const EnvFileVar = "ENCLAVE_HELPER_ENV_FILE"

// LoadEnvFile loads the dotenv file named by ENCLAVE_HELPER_ENV_FILE, if set.
// Variables already present in the environment win.
func LoadEnvFile() error {
	path := os.Getenv(EnvFileVar)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s not found", path)
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// GetEnvOrDefault returns the value of key, or defaultValue when it is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
