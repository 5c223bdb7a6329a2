package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Delay is 2 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Delay != 2*time.Second {
			t.Errorf("expected Delay to be 2s, got %v", cfg.Delay)
		}
	})

	t.Run("default Timeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected Timeout to be 10s, got %v", cfg.Timeout)
		}
	})

	t.Run("default MaxRetries is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxRetries != 3 {
			t.Errorf("expected MaxRetries to be 3, got %d", cfg.MaxRetries)
		}
	})

	t.Run("default MaxPages is 5", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 5 {
			t.Errorf("expected MaxPages to be 5, got %d", cfg.MaxPages)
		}
	})

	t.Run("default Workers is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 1 {
			t.Errorf("expected Workers to be 1, got %d", cfg.Workers)
		}
	})

	t.Run("default UserAgent identifies shopcrawl", func(t *testing.T) {
		t.Parallel()
		if !strings.Contains(cfg.UserAgent, "shopcrawl") {
			t.Errorf("expected UserAgent to contain 'shopcrawl', got %q", cfg.UserAgent)
		}
	})

	t.Run("default MaxBodySize is 10MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 10*1024*1024 {
			t.Errorf("expected MaxBodySize to be 10MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default RespectRobots is false", func(t *testing.T) {
		t.Parallel()
		if cfg.RespectRobots {
			t.Error("expected RespectRobots to be false")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.StartURL = "https://shop.example.com/products"
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty start URL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.StartURL = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoStartURL) {
			t.Errorf("expected ErrNoStartURL, got %v", err)
		}
	})

	t.Run("relative start URL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.StartURL = "/products"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidStartURL) {
			t.Errorf("expected ErrInvalidStartURL, got %v", err)
		}
	})

	t.Run("non-http scheme", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.StartURL = "ftp://shop.example.com/products"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidStartURL) {
			t.Errorf("expected ErrInvalidStartURL, got %v", err)
		}
	})

	t.Run("http scheme is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.StartURL = "http://shop.example.com/products"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("zero max pages", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxPages = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("zero max retries", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxRetries = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxRetries) {
			t.Errorf("expected ErrInvalidMaxRetries, got %v", err)
		}
	})

	t.Run("zero timeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative delay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = -1 * time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("expected ErrInvalidDelay, got %v", err)
		}
	})

	t.Run("zero delay is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Workers = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("negative max body size", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})
}

// TestDefaultProfile tests the built-in product-catalog profile.
func TestDefaultProfile(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	t.Run("listing selector targets item links", func(t *testing.T) {
		t.Parallel()
		if p.Listing != "div.product-item a" {
			t.Errorf("got %q, expected div.product-item a", p.Listing)
		}
	})

	t.Run("next page selector", func(t *testing.T) {
		t.Parallel()
		if p.NextPage != "a.next-page" {
			t.Errorf("got %q, expected a.next-page", p.NextPage)
		}
	})

	t.Run("covers the canonical fields", func(t *testing.T) {
		t.Parallel()
		want := []string{"title", "price", "description", "rating", "availability"}
		if len(p.Fields) != len(want) {
			t.Fatalf("got %d field rules, expected %d", len(p.Fields), len(want))
		}
		for i, rule := range p.Fields {
			if rule.Name != want[i] {
				t.Errorf("field %d: got %q, expected %q", i, rule.Name, want[i])
			}
			if rule.Query == "" {
				t.Errorf("field %q has empty query", rule.Name)
			}
		}
	})
}

// TestFileProfileFor tests profile merging.
func TestFileProfileFor(t *testing.T) {
	t.Parallel()

	t.Run("empty file behaves like built-in defaults", func(t *testing.T) {
		t.Parallel()
		file := &File{}
		p := file.ProfileFor("shop.example.com")
		if p.Listing != DefaultProfile().Listing {
			t.Errorf("got %q, expected built-in listing selector", p.Listing)
		}
		if len(p.Fields) != len(DefaultProfile().Fields) {
			t.Errorf("got %d fields, expected built-in field rules", len(p.Fields))
		}
	})

	t.Run("file defaults override built-ins", func(t *testing.T) {
		t.Parallel()
		file := &File{
			Defaults: SiteProfile{Listing: "ul.items a.item-link"},
		}
		p := file.ProfileFor("shop.example.com")
		if p.Listing != "ul.items a.item-link" {
			t.Errorf("got %q, expected file default listing", p.Listing)
		}
		// Untouched values keep the built-ins
		if p.NextPage != "a.next-page" {
			t.Errorf("got %q, expected built-in next page selector", p.NextPage)
		}
	})

	t.Run("site entry overrides file defaults", func(t *testing.T) {
		t.Parallel()
		file := &File{
			Defaults: SiteProfile{
				Listing: "ul.items a",
				Cookie:  "default=abc",
			},
			Sites: map[string]SiteProfile{
				"shop.example.com": {
					Listing: "div.grid a.product",
				},
			},
		}
		p := file.ProfileFor("shop.example.com")
		if p.Listing != "div.grid a.product" {
			t.Errorf("got %q, expected site listing", p.Listing)
		}
		if p.Cookie != "default=abc" {
			t.Errorf("got %q, expected default cookie to survive", p.Cookie)
		}
	})

	t.Run("site fields replace default fields entirely", func(t *testing.T) {
		t.Parallel()
		file := &File{
			Sites: map[string]SiteProfile{
				"shop.example.com": {
					Fields: []FieldRule{{Name: "title", Query: "h2.name"}},
				},
			},
		}
		p := file.ProfileFor("shop.example.com")
		if len(p.Fields) != 1 {
			t.Fatalf("got %d fields, expected 1", len(p.Fields))
		}
		if p.Fields[0].Query != "h2.name" {
			t.Errorf("got %q, expected h2.name", p.Fields[0].Query)
		}
	})

	t.Run("headers merge per key", func(t *testing.T) {
		t.Parallel()
		file := &File{
			Defaults: SiteProfile{
				Headers: map[string]string{"Accept-Language": "en"},
			},
			Sites: map[string]SiteProfile{
				"shop.example.com": {
					Headers: map[string]string{"Authorization": "Bearer token"},
				},
			},
		}
		p := file.ProfileFor("shop.example.com")
		if p.Headers["Accept-Language"] != "en" {
			t.Errorf("expected default header to survive, got %v", p.Headers)
		}
		if p.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected site header, got %v", p.Headers)
		}
	})

	t.Run("unknown host gets merged defaults", func(t *testing.T) {
		t.Parallel()
		file := &File{
			Defaults: SiteProfile{NextPage: "li.next a"},
		}
		p := file.ProfileFor("unknown.example.com")
		if p.NextPage != "li.next a" {
			t.Errorf("got %q, expected file default", p.NextPage)
		}
	})
}

// TestLoadProfileFile tests profile file loading.
func TestLoadProfileFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrProfileNotFound for missing file", func(t *testing.T) {
		t.Parallel()
		cf, err := LoadProfileFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil profiles when file not found")
		}
	})

	t.Run("loads valid YAML profile", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultProfileFile)

		content := `defaults:
  listing: "ul.catalog a"
  cookie: "default=abc"
sites:
  shop.example.com:
    listing: "div.grid a.product"
    nextPage: "li.next a"
    cookie: "session=xyz"
    headers:
      Authorization: "Bearer token"
    fields:
      - name: title
        query: "h2.name"
      - name: image
        query: "img.cover"
        attr: "src"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test profile: %v", err)
		}

		cf, err := LoadProfileFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Defaults.Listing != "ul.catalog a" {
			t.Errorf("expected default listing, got %q", cf.Defaults.Listing)
		}

		site, ok := cf.Sites["shop.example.com"]
		if !ok {
			t.Fatal("expected shop.example.com in sites")
		}
		if site.NextPage != "li.next a" {
			t.Errorf("expected site next page selector, got %q", site.NextPage)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Error("expected Authorization header")
		}
		if len(site.Fields) != 2 {
			t.Fatalf("expected 2 field rules, got %d", len(site.Fields))
		}
		if site.Fields[1].Attr != "src" {
			t.Errorf("expected attr src, got %q", site.Fields[1].Attr)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultProfileFile)

		content := `defaults:
  listingg: "typo"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test profile: %v", err)
		}

		if _, err := LoadProfileFile(path); err == nil {
			t.Error("expected error for unknown key")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultProfileFile)

		content := `invalid: yaml: content: [}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test profile: %v", err)
		}

		if _, err := LoadProfileFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file yields empty profiles", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultProfileFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write test profile: %v", err)
		}

		cf, err := LoadProfileFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultProfileFile)

		big := strings.Repeat("# padding\n", 110*1024) // just over 1MB
		if err := os.WriteFile(path, []byte(big), 0600); err != nil {
			t.Fatalf("failed to write test profile: %v", err)
		}

		if _, err := LoadProfileFile(path); !errors.Is(err, ErrProfileTooLarge) {
			t.Errorf("expected ErrProfileTooLarge, got %v", err)
		}
	})
}

// TestFindProfileFile tests the FindProfileFile function.
func TestFindProfileFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		if err := os.WriteFile(path, []byte("defaults:\n"), 0600); err != nil {
			t.Fatalf("failed to write test profile: %v", err)
		}
		if got := FindProfileFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()
		if got := FindProfileFile("/nonexistent/path/profiles.yaml"); got != "" {
			t.Errorf("got %q, expected empty string", got)
		}
	})
}
