package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// TestNewRecord tests the Record constructor.
func TestNewRecord(t *testing.T) {
	t.Parallel()

	r := NewRecord()

	t.Run("starts empty", func(t *testing.T) {
		t.Parallel()
		if r.Len() != 0 {
			t.Errorf("got %d fields, expected 0", r.Len())
		}
	})

	t.Run("get on missing field", func(t *testing.T) {
		t.Parallel()
		v, ok := r.Get("title")
		if ok {
			t.Error("expected ok=false for missing field")
		}
		if v != "" {
			t.Errorf("got %q, expected empty string", v)
		}
	})
}

// TestRecordSet tests field insertion and update behavior.
func TestRecordSet(t *testing.T) {
	t.Parallel()

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()
		r := NewRecord()
		r.Set("url", "http://example.com/item/1")
		r.Set("title", "Widget")
		r.Set("price", "$9.99")

		want := []string{"url", "title", "price"}
		if !reflect.DeepEqual(r.Fields(), want) {
			t.Errorf("got %v, expected %v", r.Fields(), want)
		}
	})

	t.Run("update does not reorder", func(t *testing.T) {
		t.Parallel()
		r := NewRecord()
		r.Set("url", "http://example.com/item/1")
		r.Set("title", "Widget")
		r.Set("url", "http://example.com/item/2")

		want := []string{"url", "title"}
		if !reflect.DeepEqual(r.Fields(), want) {
			t.Errorf("got %v, expected %v", r.Fields(), want)
		}
		if got, _ := r.Get("url"); got != "http://example.com/item/2" {
			t.Errorf("got %q, expected updated value", got)
		}
	})

	t.Run("fields returns a copy", func(t *testing.T) {
		t.Parallel()
		r := NewRecord()
		r.Set("url", "http://example.com")
		fields := r.Fields()
		fields[0] = "mutated"
		if r.Fields()[0] != "url" {
			t.Error("mutating the returned slice changed the record")
		}
	})
}

// TestRecordURL tests the URL convenience accessor.
func TestRecordURL(t *testing.T) {
	t.Parallel()

	r := NewRecord()
	if r.URL() != "" {
		t.Errorf("got %q, expected empty URL for new record", r.URL())
	}

	r.Set(FieldURL, "http://example.com/item/1")
	if r.URL() != "http://example.com/item/1" {
		t.Errorf("got %q, expected the url field value", r.URL())
	}
}

// TestRecordMarshalJSON tests that JSON output preserves field order.
func TestRecordMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("keys appear in insertion order", func(t *testing.T) {
		t.Parallel()
		r := NewRecord()
		r.Set("url", "http://example.com/item/1")
		r.Set("title", "Widget")
		r.Set("sku", "W-100")

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := string(data)
		want := `{"url":"http://example.com/item/1","title":"Widget","sku":"W-100"}`
		if got != want {
			t.Errorf("got %s, expected %s", got, want)
		}
	})

	t.Run("escapes special characters", func(t *testing.T) {
		t.Parallel()
		r := NewRecord()
		r.Set("title", `He said "hello"`)

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `\"hello\"`) {
			t.Errorf("expected escaped quotes in %s", data)
		}
	})

	t.Run("empty record is an empty object", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(NewRecord())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("got %s, expected {}", data)
		}
	})
}

// TestCanonicalFields tests the canonical export column order.
func TestCanonicalFields(t *testing.T) {
	t.Parallel()

	want := []string{"url", "title", "price", "description", "rating", "availability", "scraped_at"}
	if !reflect.DeepEqual(CanonicalFields(), want) {
		t.Errorf("got %v, expected %v", CanonicalFields(), want)
	}
}
