package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownStandard is returned by Get for standards that were never
// registered. Callers skip the standard rather than aborting a batch.
var ErrUnknownStandard = errors.New("unknown standard")

// Registry is a read-only lookup of proposal sources. It is populated once
// at construction and never mutated afterwards.
type Registry struct {
	sources map[string]Source
}

// New builds the registry from the built-in source set, applying any YAML
// override files found in overridesDir (one <STANDARD>.yml per standard,
// same layout as the sourceOverride struct). A missing directory is fine.
func New(overridesDir string) (*Registry, error) {
	sources := make(map[string]Source)

	for _, src := range defaultSources() {
		if err := validateSource(src); err != nil {
			return nil, fmt.Errorf("invalid source %s: %w", src.Standard, err)
		}
		src.pattern = regexp.MustCompile(src.FilePattern)
		sources[src.Standard] = src
	}

	if overridesDir != "" {
		if err := applyOverrides(sources, overridesDir); err != nil {
			return nil, err
		}
	}

	return &Registry{sources: sources}, nil
}

// Get looks up one standard's source descriptor.
func (r *Registry) Get(standard string) (Source, error) {
	src, ok := r.sources[strings.ToUpper(strings.TrimSpace(standard))]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownStandard, standard)
	}
	return src, nil
}

// All returns every registered source, sorted by standard identifier.
func (r *Registry) All() []Source {
	all := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		all = append(all, src)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Standard < all[j].Standard
	})
	return all
}

// Standards returns the registered standard identifiers, sorted.
func (r *Registry) Standards() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Count() int {
	return len(r.sources)
}

// sourceOverride is the YAML shape of a per-standard override file. Only
// the URL-bearing fields can be overridden; cascade structure and seed
// data stay built-in.
type sourceOverride struct {
	URL    string `yaml:"url"`
	APIURL string `yaml:"api_url"`
	Tiers  []struct {
		Name TierName `yaml:"name"`
		URL  string   `yaml:"url"`
	} `yaml:"tiers"`
}

func applyOverrides(sources map[string]Source, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find source override files: %w", err)
	}

	for _, file := range files {
		standard := strings.ToUpper(strings.TrimSuffix(filepath.Base(file), ".yml"))
		src, ok := sources[standard]
		if !ok {
			slog.Warn("Ignoring override for unregistered standard", "standard", standard, "file", file)
			continue
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		var override sourceOverride
		if err := yaml.Unmarshal(data, &override); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}

		if override.URL != "" {
			src.URL = override.URL
		}
		if override.APIURL != "" {
			src.APIURL = override.APIURL
		}
		for _, tierOverride := range override.Tiers {
			for i := range src.Tiers {
				if src.Tiers[i].Name == tierOverride.Name && tierOverride.URL != "" {
					src.Tiers[i].URL = tierOverride.URL
				}
			}
		}

		sources[standard] = src
		slog.Debug("Source override applied", "standard", standard, "file", file)
	}

	return nil
}

func validateSource(src Source) error {
	if src.Standard == "" {
		return fmt.Errorf("standard identifier is required")
	}
	if len(src.Tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}

	last := src.Tiers[len(src.Tiers)-1]
	if last.Strategy != StrategySeed {
		return fmt.Errorf("last tier must be the seed tier, got %s", last.Strategy)
	}
	if len(src.Seed) == 0 {
		return fmt.Errorf("seed records are required")
	}
	if _, err := regexp.Compile(src.FilePattern); err != nil {
		return fmt.Errorf("invalid file pattern: %w", err)
	}

	for _, tier := range src.Tiers[:len(src.Tiers)-1] {
		if tier.URL == "" {
			return fmt.Errorf("tier %s has no URL", tier.Name)
		}
		if tier.Parser == ParserNone {
			return fmt.Errorf("tier %s has no parser", tier.Name)
		}
	}

	return nil
}
