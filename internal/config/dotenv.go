package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const maxEnvSearchDepth = 6

// LoadDotEnv copies KEY=VALUE pairs from the nearest .env file (current
// directory or up to maxEnvSearchDepth parents) into the process environment.
// Variables already set win. Missing files are not an error.
func LoadDotEnv(logger logrus.FieldLogger) {
	path, err := findEnvFile()
	if err != nil {
		logger.Warnf("failed to locate .env: %v", err)
		return
	}
	if path == "" {
		logger.Debug(".env not found in current or parent directories")
		return
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warnf("failed to open %s: %v", path, err)
		return
	}
	defer file.Close()

	if err := parseEnvFile(logger, file); err != nil {
		logger.Warnf("failed to load %s: %v", path, err)
		return
	}
	logger.WithField("path", path).Info("loaded env file")
}

func findEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for range maxEnvSearchDepth {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// parseEnvFile applies the pairs in r without overriding variables that are
// already set.
func parseEnvFile(logger logrus.FieldLogger, r io.Reader) error {
	pairs, err := godotenv.Parse(r)
	if err != nil {
		return err
	}
	for key, value := range pairs {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			logger.Warnf("failed to set %s from env file", key)
		}
	}
	return nil
}
