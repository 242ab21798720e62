// Package guideline resolves the clinical threshold set an assessment is
// evaluated against: the compiled default, a YAML override file, or a
// versioned row in Postgres.
package guideline

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Skufu/GoSummit/internal/assessment"
)

// LoadFile reads a YAML guideline. Fields the file omits keep their default
// values, so a file may override only the thresholds it cares about.
func LoadFile(path string) (assessment.Guideline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return assessment.Guideline{}, fmt.Errorf("read guideline file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (assessment.Guideline, error) {
	g := assessment.DefaultGuideline()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return assessment.Guideline{}, fmt.Errorf("decode guideline: %w", err)
	}
	if err := g.Validate(); err != nil {
		return assessment.Guideline{}, err
	}
	return g, nil
}
