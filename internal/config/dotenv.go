package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotEnvPrecedence copies dir/.env and dir/.env.local into the process
// env. Variables already set in the shell always win.
func loadDotEnvPrecedence(dir string) error {
	for _, name := range []string{".env", ".env.local"} {
		values, err := godotenv.Read(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if setErr := os.Setenv(k, v); setErr != nil {
					return setErr
				}
			}
		}
	}
	return nil
}
