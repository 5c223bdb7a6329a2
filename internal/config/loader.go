package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProfileFile is the default profile file name.
const DefaultProfileFile = ".shopcrawl"

// maxProfileSize caps how much of a profile file is read.
// A selector profile is a few kilobytes; anything near this limit is
// almost certainly the wrong file.
const maxProfileSize = 1 << 20 // 1MB

// ErrProfileNotFound is returned when the profile file does not exist.
var ErrProfileNotFound = errors.New("profile file not found")

// ErrProfileTooLarge is returned when the profile file exceeds maxProfileSize.
var ErrProfileTooLarge = errors.New("profile file too large")

// LoadProfileFile loads selector profiles from a YAML file.
// If the file does not exist, it returns ErrProfileNotFound.
// Unknown YAML keys are rejected so selector typos fail loudly instead
// of silently scraping nothing.
func LoadProfileFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided profile path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxProfileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxProfileSize {
		return nil, fmt.Errorf("%w: %s", ErrProfileTooLarge, path)
	}

	var cf File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		// An empty file decodes to io.EOF; treat it as an empty profile
		if errors.Is(err, io.EOF) {
			cf = File{}
		} else {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteProfile)
	}

	return &cf, nil
}

// FindProfileFile searches for the profile file in the following order:
// 1. If profilePath is specified, use it directly
// 2. Look for .shopcrawl in the current directory
// 3. Look for .shopcrawl in the user's home directory
//
// Returns the path to the profile file if found, or empty string if not found.
func FindProfileFile(profilePath string) string {
	// If explicit path is provided, use it
	if profilePath != "" {
		if _, err := os.Stat(profilePath); err == nil {
			return profilePath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdProfile := filepath.Join(cwd, DefaultProfileFile)
		if _, err := os.Stat(cwdProfile); err == nil {
			return cwdProfile
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeProfile := filepath.Join(home, DefaultProfileFile)
		if _, err := os.Stat(homeProfile); err == nil {
			return homeProfile
		}
	}

	return ""
}
