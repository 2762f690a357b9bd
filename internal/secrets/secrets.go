// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads caller-identification values from a directory of
// plain-text files, keeping contact addresses out of the committed config.
// Each file holds one value: the filename is the key, the trimmed contents
// the value. Recognized files: contact-email, user-agent.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Secrets holds the caller-identification values the registries expect.
type Secrets struct {
	// Email is the contact address (file: contact-email).
	Email string

	// UserAgent overrides the default User-Agent (file: user-agent).
	UserAgent string
}

// Load reads the secrets directory. A missing directory or missing files
// yield zero values, not errors; only an unreadable present file fails.
func Load(dir string) (Secrets, error) {
	var s Secrets

	email, err := readValue(filepath.Join(dir, "contact-email"))
	if err != nil {
		return Secrets{}, err
	}
	s.Email = email

	ua, err := readValue(filepath.Join(dir, "user-agent"))
	if err != nil {
		return Secrets{}, err
	}
	s.UserAgent = ua

	return s, nil
}

func readValue(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
