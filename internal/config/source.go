package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// source resolves a key from the environment first, then from an optional
// TOML file whose keys are the environment variable names.
type source struct {
	file map[string]any
}

func (s *source) loadFile(path string) error {
	values := make(map[string]any)
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return err
	}
	s.file = values
	return nil
}

func (s *source) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if s != nil && s.file != nil {
		if value, ok := s.file[key]; ok {
			return fmt.Sprint(value)
		}
	}
	return defaultValue
}

func (s *source) duration(key string, defaultValue time.Duration) time.Duration {
	raw := s.get(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

func (s *source) int(key string, defaultValue int) int {
	raw := s.get(key, "")
	if raw == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return i
}
