package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetIsCaseInsensitive(t *testing.T) {
	reg, err := New("")
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	for _, name := range []string{"EIP", "eip", " Eip "} {
		src, err := reg.Get(name)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", name, err)
			continue
		}
		if src.Standard != "EIP" {
			t.Errorf("Get(%q) returned standard %q", name, src.Standard)
		}
	}
}

func TestGetUnknownStandard(t *testing.T) {
	reg, err := New("")
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	_, err = reg.Get("XYZ")
	if err == nil {
		t.Fatal("Expected error for unknown standard")
	}
	if !errors.Is(err, ErrUnknownStandard) {
		t.Errorf("Expected ErrUnknownStandard in chain, got %v", err)
	}
}

func TestAllSourcesEndWithSeedTier(t *testing.T) {
	reg, err := New("")
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	sources := reg.All()
	if len(sources) == 0 {
		t.Fatal("Expected built-in sources")
	}

	for _, src := range sources {
		if len(src.Tiers) == 0 {
			t.Errorf("%s: no tiers", src.Standard)
			continue
		}
		last := src.Tiers[len(src.Tiers)-1]
		if last.Strategy != StrategySeed {
			t.Errorf("%s: last tier strategy = %q, expected seed", src.Standard, last.Strategy)
		}
		if len(src.Seed) == 0 {
			t.Errorf("%s: empty seed list", src.Standard)
		}
		for _, record := range src.Seed {
			if !record.Seed {
				t.Errorf("%s: seed record %d not flagged as seed", src.Standard, record.Number)
			}
			if record.Created == "" {
				t.Errorf("%s: seed record %d has empty created field", src.Standard, record.Number)
			}
		}
	}
}

func TestRegisteredStandards(t *testing.T) {
	reg, err := New("")
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	expected := []string{"BEP", "BIP", "EIP", "LIP", "SUP", "TIP"}
	standards := reg.Standards()

	if len(standards) != len(expected) {
		t.Fatalf("Expected %d standards, got %d: %v", len(expected), len(standards), standards)
	}
	for i, name := range expected {
		if standards[i] != name {
			t.Errorf("Expected standards[%d] = %q, got %q", i, name, standards[i])
		}
	}
}

func TestSourcePatternsExtractNumbers(t *testing.T) {
	reg, err := New("")
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	tests := []struct {
		standard string
		filename string
		number   string
	}{
		{"EIP", "eip-7702.md", "7702"},
		{"BIP", "bip-0443.mediawiki", "0443"},
	}

	for _, tt := range tests {
		src, err := reg.Get(tt.standard)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", tt.standard, err)
		}
		m := src.Pattern().FindStringSubmatch(tt.filename)
		if m == nil {
			t.Errorf("%s pattern did not match %q", tt.standard, tt.filename)
			continue
		}
		if m[1] != tt.number {
			t.Errorf("%s pattern extracted %q from %q, expected %q", tt.standard, m[1], tt.filename, tt.number)
		}
	}
}

func TestOverridesReplaceURLs(t *testing.T) {
	dir := t.TempDir()
	override := `url: https://mirror.example.com/eips
api_url: https://mirror.example.com/api
tiers:
  - name: primary
    url: https://mirror.example.com/api/contents
`
	if err := os.WriteFile(filepath.Join(dir, "eip.yml"), []byte(override), 0o644); err != nil {
		t.Fatalf("Failed to write override file: %v", err)
	}

	reg, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to build registry with overrides: %v", err)
	}

	src, err := reg.Get("EIP")
	if err != nil {
		t.Fatalf("Get(EIP) failed: %v", err)
	}

	if src.URL != "https://mirror.example.com/eips" {
		t.Errorf("Expected overridden URL, got %q", src.URL)
	}
	if src.APIURL != "https://mirror.example.com/api" {
		t.Errorf("Expected overridden API URL, got %q", src.APIURL)
	}
	if src.Tiers[0].URL != "https://mirror.example.com/api/contents" {
		t.Errorf("Expected overridden primary tier URL, got %q", src.Tiers[0].URL)
	}
	// Non-overridden tiers keep their built-in URLs.
	if src.Tiers[1].URL == "" || src.Tiers[1].URL == src.Tiers[0].URL {
		t.Errorf("Fallback tier URL unexpectedly changed: %q", src.Tiers[1].URL)
	}
}

func TestOverridesMissingDirIsFine(t *testing.T) {
	if _, err := New("/nonexistent/override/dir"); err != nil {
		t.Errorf("Missing overrides directory should not fail: %v", err)
	}
}
