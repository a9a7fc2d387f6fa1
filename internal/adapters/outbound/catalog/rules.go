package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

type ruleFile struct {
	Category string    `yaml:"category"`
	Rules    []ruleDef `yaml:"rules"`
}

type ruleDef struct {
	ID              string   `yaml:"id"`
	Category        string   `yaml:"category"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Severity        string   `yaml:"severity"`
	Components      []string `yaml:"components"`
	Check           checkDef `yaml:"check"`
	MessageTemplate string   `yaml:"message_template"`
}

type checkDef struct {
	Operator   string  `yaml:"operator"`
	FieldA     string  `yaml:"field_a"`
	FieldB     string  `yaml:"field_b"`
	FieldBHigh string  `yaml:"field_b_high"`
	Multiplier float64 `yaml:"multiplier"`
	Expression string  `yaml:"expression"`
}

// LoadConstraints reads every constraints/*.yaml file into a Constraint
// slice. A structurally invalid rule is skipped; a file that is not
// valid YAML at all is an error.
func (r *Repository) LoadConstraints() ([]domain.Constraint, error) {
	dir := filepath.Join(r.dataDir, "constraints")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading constraints dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var constraints []domain.Constraint
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var file ruleFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		for _, rule := range file.Rules {
			c, ok := buildConstraint(rule, file.Category)
			if !ok {
				continue // one malformed rule never aborts the load
			}
			constraints = append(constraints, c)
		}
	}
	return constraints, nil
}

func buildConstraint(rule ruleDef, fileCategory string) (domain.Constraint, bool) {
	if rule.ID == "" || rule.Name == "" {
		return domain.Constraint{}, false
	}

	severity := domain.Severity(rule.Severity)
	switch severity {
	case domain.SeverityCritical, domain.SeverityWarning, domain.SeverityInfo:
	case "":
		severity = domain.SeverityInfo
	default:
		return domain.Constraint{}, false
	}

	category := rule.Category
	if category == "" {
		category = fileCategory
	}

	multiplier := rule.Check.Multiplier
	if multiplier == 0 {
		multiplier = 1.0
	}

	return domain.Constraint{
		ID:          rule.ID,
		Category:    category,
		Name:        rule.Name,
		Description: rule.Description,
		Severity:    severity,
		Components:  rule.Components,
		Check: domain.CheckSpec{
			Operator:   domain.ParseOperator(rule.Check.Operator),
			FieldA:     rule.Check.FieldA,
			FieldB:     rule.Check.FieldB,
			FieldBHigh: rule.Check.FieldBHigh,
			Multiplier: multiplier,
			Expression: rule.Check.Expression,
		},
		MessageTemplate: rule.MessageTemplate,
	}, true
}
