package risk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is an optional YAML file of extra signatures checked after the
// built-in table:
//
//	signatures:
//	  - pattern: '\bshred\b'
//	    level: high
//	    reason: Irreversibly erases file contents
type Pack struct {
	Signatures []PackSignature `yaml:"signatures"`
}

// PackSignature is one signature entry as written in a pack file.
type PackSignature struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Reason  string `yaml:"reason"`
}

// Load builds a classifier from the built-in table plus the pack at path.
// An empty path yields the built-in table alone.
func Load(path string) (*Classifier, error) {
	if path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature pack: %w", err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse signature pack: %w", err)
	}

	extra := make([]Signature, 0, len(pack.Signatures))
	for _, ps := range pack.Signatures {
		level, err := ParseLevel(ps.Level)
		if err != nil {
			return nil, fmt.Errorf("signature pack %s: %w", path, err)
		}
		extra = append(extra, Signature{Pattern: ps.Pattern, Level: level, Reason: ps.Reason})
	}

	cls, err := WithSignatures(extra)
	if err != nil {
		return nil, fmt.Errorf("signature pack %s: %w", path, err)
	}
	return cls, nil
}
