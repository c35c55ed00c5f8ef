package severity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an ordered escalation rule list from a YAML file. The file
// overrides the store-seeded rules, letting operators tune keyword policy
// without a migration.
//
// Format:
//
//	rules:
//	  - pattern: fire
//	    priority: EMERGENCY
//	  - pattern: leak
//	    priority: HIGH
func LoadFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read severity rules file: %w", err)
	}

	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse severity rules file: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("severity rules file %s contains no rules", path)
	}

	return NewRuleSet(doc.Rules)
}
