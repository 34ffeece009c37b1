package quality

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed standards/*.yaml
var embedded embed.FS

// Parameter is one line of a product specification. A nil bound is open.
type Parameter struct {
	Name       string   `yaml:"parameter"`
	Min        *float64 `yaml:"min"`
	Max        *float64 `yaml:"max"`
	Unit       string   `yaml:"unit"`
	TestMethod string   `yaml:"test_method"`
	Critical   bool     `yaml:"critical"`
}

// Within reports whether v satisfies both bounds (inclusive).
func (p Parameter) Within(v float64) bool {
	return (p.Min == nil || v >= *p.Min) && (p.Max == nil || v <= *p.Max)
}

// Spec renders the bounds for remediation text, e.g. "720-775 kg/m3".
func (p Parameter) Spec() string {
	switch {
	case p.Min != nil && p.Max != nil:
		return fmt.Sprintf("%g-%g %s", *p.Min, *p.Max, p.Unit)
	case p.Min != nil:
		return fmt.Sprintf(">= %g %s", *p.Min, p.Unit)
	case p.Max != nil:
		return fmt.Sprintf("<= %g %s", *p.Max, p.Unit)
	default:
		return "report only"
	}
}

// Standard is a versioned jurisdiction table keyed by product type.
type Standard struct {
	Jurisdiction string                 `yaml:"jurisdiction"`
	Version      string                 `yaml:"version"`
	Authority    string                 `yaml:"authority"`
	Products     map[string][]Parameter `yaml:"products"`
}

// LoadStandards parses every *.yaml file in fsys keyed by jurisdiction.
func LoadStandards(fsys fs.FS) (map[string]Standard, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]Standard, len(files))
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var s Standard
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if s.Jurisdiction == "" {
			s.Jurisdiction = strings.ToUpper(strings.TrimSuffix(path.Base(name), path.Ext(name)))
		}
		out[strings.ToUpper(s.Jurisdiction)] = s
	}
	return out, nil
}

// DefaultStandards returns the tables compiled into the binary.
func DefaultStandards() (map[string]Standard, error) {
	sub, err := fs.Sub(embedded, "standards")
	if err != nil {
		return nil, err
	}
	return LoadStandards(sub)
}
