package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// document is the on-disk YAML layout.
type document struct {
	Version int    `yaml:"version"`
	Options []Rule `yaml:"options"`
}

const currentVersion = 1

// Parse decodes a YAML catalog document.
func Parse(data []byte) ([]Rule, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if doc.Version != currentVersion {
		return nil, fmt.Errorf("unsupported catalog version %d (want %d)", doc.Version, currentVersion)
	}
	return doc.Options, nil
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// DefaultRules returns the catalog shipped with the binary.
func DefaultRules() []Rule {
	rules, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return rules
}

// Marshal encodes rules as a YAML catalog document.
func Marshal(rules []Rule) ([]byte, error) {
	return yaml.Marshal(document{Version: currentVersion, Options: rules})
}
