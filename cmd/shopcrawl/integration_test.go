package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopcrawl/shopcrawl/internal/config"
	"github.com/shopcrawl/shopcrawl/internal/model"
)

// TestIntegrationScrape runs a full crawl against a local catalog and
// checks every export format.
func TestIntegrationScrape(t *testing.T) {
	server := createCatalogServer(t)

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "items.csv")
	jsonPath := filepath.Join(tmpDir, "items.json")
	reportPath := filepath.Join(tmpDir, "report.md")

	cfg := createTestConfig(server.URL + "/products")
	cfg.CSVFile = csvPath
	cfg.JSONFile = jsonPath
	cfg.ReportFile = reportPath

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	if err := runScrape(context.Background(), cfg, logger); err != nil {
		t.Fatalf("runScrape() error = %v", err)
	}

	t.Run("CSV has header and all records", func(t *testing.T) {
		f, err := os.Open(csvPath)
		if err != nil {
			t.Fatalf("failed to open CSV: %v", err)
		}
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(rows) != 4 {
			t.Fatalf("expected 4 rows (header + 3 records), got %d", len(rows))
		}
		if rows[0][0] != "url" || rows[0][1] != "title" {
			t.Errorf("unexpected header: %v", rows[0])
		}
		if rows[1][1] != "Item 1" {
			t.Errorf("expected first record title 'Item 1', got %q", rows[1][1])
		}
		if rows[1][2] != "$1.00" {
			t.Errorf("expected first record price '$1.00', got %q", rows[1][2])
		}
	})

	t.Run("JSON has records in discovery order", func(t *testing.T) {
		content, err := os.ReadFile(jsonPath)
		if err != nil {
			t.Fatalf("failed to read JSON: %v", err)
		}

		var records []map[string]string
		if err := json.Unmarshal(content, &records); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		for i, want := range []string{"Item 1", "Item 2", "Item 3"} {
			if records[i]["title"] != want {
				t.Errorf("record %d: expected title %q, got %q", i, want, records[i]["title"])
			}
		}
	})

	t.Run("records carry a scrape timestamp", func(t *testing.T) {
		content, err := os.ReadFile(jsonPath)
		if err != nil {
			t.Fatalf("failed to read JSON: %v", err)
		}

		var records []map[string]string
		if err := json.Unmarshal(content, &records); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}

		for i, rec := range records {
			if _, err := time.Parse(model.TimestampLayout, rec["scraped_at"]); err != nil {
				t.Errorf("record %d: invalid scraped_at %q: %v", i, rec["scraped_at"], err)
			}
		}
	})

	t.Run("report summarizes the crawl", func(t *testing.T) {
		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		report := string(content)
		if !strings.Contains(report, "# Scrape Report") {
			t.Error("expected report heading")
		}
		if !strings.Contains(report, "Item 1") {
			t.Error("expected report preview to contain first record")
		}
	})
}

// TestIntegrationScrapeCommand drives a crawl through the root command
// the way a user would.
func TestIntegrationScrapeCommand(t *testing.T) {
	server := createCatalogServer(t)

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "items.csv")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{
		"scrape",
		"--delay", "0",
		"--retries", "1",
		"--csv", csvPath,
		server.URL + "/products",
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	content, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	for _, want := range []string{"Item 1", "Item 2", "Item 3"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected CSV to contain %q", want)
		}
	}
}

// TestIntegrationScrapeWithProfile crawls a catalog whose markup the
// built-in selectors do not match, using a site profile instead.
func TestIntegrationScrapeWithProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/catalog", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
<ul class="catalog">
<li><a href="/book/1">Book 1</a></li>
<li><a href="/book/2">Book 2</a></li>
</ul>
</body></html>`)
	})
	mux.HandleFunc("/book/", func(w http.ResponseWriter, r *http.Request) {
		id := path.Base(r.URL.Path)
		fmt.Fprintf(w, `<html><body>
<h2 class="book-title">Book %s</h2>
<p class="book-price">£%s0.00</p>
<img class="cover" src="/covers/%s.jpg">
</body></html>`, id, id, id)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	// Site profile keyed by the test server's host
	host := strings.TrimPrefix(server.URL, "http://")
	profileContent := fmt.Sprintf(`sites:
  %s:
    listing: "ul.catalog a"
    fields:
      - name: title
        query: "h2.book-title"
      - name: price
        query: "p.book-price"
      - name: cover
        query: "img.cover"
        attr: "src"
`, host)

	tmpDir := t.TempDir()
	profilePath := filepath.Join(tmpDir, "books.yaml")
	if err := os.WriteFile(profilePath, []byte(profileContent), 0600); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	jsonPath := filepath.Join(tmpDir, "books.json")

	cfg := createTestConfig(server.URL + "/catalog")
	cfg.JSONFile = jsonPath

	profiles, err := config.LoadProfileFile(profilePath)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	cfg.Profiles = profiles

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	if err := runScrape(context.Background(), cfg, logger); err != nil {
		t.Fatalf("runScrape() error = %v", err)
	}

	content, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("failed to read JSON: %v", err)
	}

	var records []map[string]string
	if err := json.Unmarshal(content, &records); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["title"] != "Book 1" {
		t.Errorf("expected title 'Book 1', got %q", records[0]["title"])
	}
	if records[0]["cover"] != "/covers/1.jpg" {
		t.Errorf("expected cover '/covers/1.jpg', got %q", records[0]["cover"])
	}
	if records[1]["price"] != "£20.00" {
		t.Errorf("expected price '£20.00', got %q", records[1]["price"])
	}
}
