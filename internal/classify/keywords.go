package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// keywordFile is the schema of an external keyword list.
type keywordFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywordsFile reads additional keywords from a YAML file of the form:
//
//	keywords:
//	  - job
//	  - hiring
//
// A bare YAML sequence is accepted too.
func LoadKeywordsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var kf keywordFile
	if err := yaml.Unmarshal(data, &kf); err == nil && len(kf.Keywords) > 0 {
		return kf.Keywords, nil
	}

	var list []string
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", path, err)
	}
	return list, nil
}
