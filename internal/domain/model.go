package domain

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank returns the sort order of a severity: critical sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Outcome is the tri-state result of evaluating one check or rule.
// Skipped means the inputs needed to decide were missing — callers must
// never read it as confirmation that the rule holds.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Component is a single FPV part with flattened specs.
type Component struct {
	ID           string         `json:"id"`
	Type         string         `json:"component_type"`
	Manufacturer string         `json:"manufacturer"`
	Model        string         `json:"model"`
	WeightG      float64        `json:"weight_g"`
	PriceUSD     float64        `json:"price_usd"`
	Category     string         `json:"category"`
	Specs        map[string]any `json:"specs,omitempty"`
}

// Get resolves a field name against the declared attributes first,
// then the free-form specs.
func (c *Component) Get(field string) (any, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "component_type":
		return c.Type, true
	case "manufacturer":
		return c.Manufacturer, true
	case "model":
		return c.Model, true
	case "weight_g":
		return c.WeightG, true
	case "price_usd":
		return c.PriceUSD, true
	case "category":
		return c.Category, true
	}
	v, ok := c.Specs[field]
	return v, ok
}

// GetString returns a field as a string, or "" when absent or not a string.
func (c *Component) GetString(field string) string {
	v, ok := c.Get(field)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool returns a field as a bool, or false when absent or not a bool.
func (c *Component) GetBool(field string) bool {
	v, ok := c.Get(field)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// GetFloat returns a numeric field as float64.
func (c *Component) GetFloat(field string) (float64, bool) {
	v, ok := c.Get(field)
	if !ok {
		return 0, false
	}
	return AsFloat(v)
}

// Build is a complete drone: a set of components plus fleet metadata.
// Each slot holds an ordered list; single-component slots hold one entry
// and the motor slot holds one entry per motor.
type Build struct {
	Name            string                  `json:"name"`
	Nickname        string                  `json:"nickname,omitempty"`
	DroneClass      string                  `json:"drone_class"`
	Components      map[string][]*Component `json:"components,omitempty"`
	Status          string                  `json:"status,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Tags            []string                `json:"tags,omitempty"`
	AcquiredDate    string                  `json:"acquired_date,omitempty"`
	ComponentStatus map[string]string       `json:"component_status,omitempty"`
	SourceFile      string                  `json:"source_file,omitempty"`
}

// GetComponent returns the first component in a slot, or nil when the
// slot is absent or empty.
func (b *Build) GetComponent(slot string) *Component {
	comps := b.Components[slot]
	if len(comps) == 0 {
		return nil
	}
	return comps[0]
}

// Motors returns the motor slot contents.
func (b *Build) Motors() []*Component {
	return b.Components["motor"]
}

// Motor returns the first motor, or nil.
func (b *Build) Motor() *Component {
	return b.GetComponent("motor")
}

// MotorCount returns the number of motors in the build.
func (b *Build) MotorCount() int {
	return len(b.Motors())
}

// AllUpWeightG sums the weight of every component in the build.
func (b *Build) AllUpWeightG() float64 {
	total := 0.0
	for _, comps := range b.Components {
		for _, c := range comps {
			total += c.WeightG
		}
	}
	return total
}

// DryWeightG is the all-up weight minus the battery.
func (b *Build) DryWeightG() float64 {
	total := b.AllUpWeightG()
	if battery := b.GetComponent("battery"); battery != nil {
		total -= battery.WeightG
	}
	return total
}

// TotalPriceUSD sums the price of every component in the build.
func (b *Build) TotalPriceUSD() float64 {
	total := 0.0
	for _, comps := range b.Components {
		for _, c := range comps {
			total += c.PriceUSD
		}
	}
	return total
}

// Operator identifies the comparison a constraint check performs.
// Rules author it as a string tag; unknown tags parse to OpUnsupported,
// which always passes so one bad rule cannot fail a build.
type Operator int

const (
	OpUnsupported Operator = iota
	OpExpression
	OpLT
	OpLTE
	OpGT
	OpGTE
	OpEQ
	OpNEQ
	OpIn
	OpContains
	OpMultiplyLTE
	OpRange
)

var operatorTags = map[string]Operator{
	"expression":   OpExpression,
	"lt":           OpLT,
	"lte":          OpLTE,
	"gt":           OpGT,
	"gte":          OpGTE,
	"eq":           OpEQ,
	"neq":          OpNEQ,
	"in":           OpIn,
	"contains":     OpContains,
	"multiply_lte": OpMultiplyLTE,
	"range":        OpRange,
}

// ParseOperator maps a rule's operator tag to an Operator.
// An empty tag means expression; anything unrecognized is OpUnsupported.
func ParseOperator(tag string) Operator {
	if tag == "" {
		return OpExpression
	}
	if op, ok := operatorTags[tag]; ok {
		return op
	}
	return OpUnsupported
}

func (op Operator) String() string {
	for tag, o := range operatorTags {
		if o == op {
			return tag
		}
	}
	return "unsupported"
}

// CheckSpec describes what a constraint compares: an operator plus its
// operand field paths and operator-specific parameters.
type CheckSpec struct {
	Operator   Operator `json:"-"`
	FieldA     string   `json:"field_a,omitempty"`
	FieldB     string   `json:"field_b,omitempty"`
	FieldBHigh string   `json:"field_b_high,omitempty"`
	Multiplier float64  `json:"multiplier,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

// Constraint is a single externally-authored compatibility rule.
type Constraint struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Severity        Severity  `json:"severity"`
	Components      []string  `json:"components"`
	Check           CheckSpec `json:"check"`
	MessageTemplate string    `json:"message_template,omitempty"`
}

// ValidationResult is the outcome of evaluating one constraint or
// firmware check against a build.
type ValidationResult struct {
	ConstraintID   string         `json:"constraint_id"`
	ConstraintName string         `json:"constraint_name"`
	Severity       Severity       `json:"severity"`
	Outcome        Outcome        `json:"outcome"`
	Message        string         `json:"message"`
	Details        map[string]any `json:"details,omitempty"`
}

// Passed reports whether the result is not a failure. Skipped results
// count as passed here; use Skipped to tell them apart.
func (r ValidationResult) Passed() bool { return r.Outcome != OutcomeFailed }

// Failed reports whether the check found a genuine violation.
func (r ValidationResult) Failed() bool { return r.Outcome == OutcomeFailed }

// Skipped reports whether the check could not be evaluated.
func (r ValidationResult) Skipped() bool { return r.Outcome == OutcomeSkipped }

// CheckID implements Finding.
func (r ValidationResult) CheckID() string { return r.ConstraintID }

// CheckSeverity implements Finding.
func (r ValidationResult) CheckSeverity() Severity { return r.Severity }

// Text implements Finding.
func (r ValidationResult) Text() string { return r.Message }

// Discrepancy is the outcome of one live-config-vs-fleet-record check.
// A discrepancy only exists when something disagrees, so there is no
// passing variant.
type Discrepancy struct {
	ID            string   `json:"id"`
	ComponentType string   `json:"component_type"`
	Category      string   `json:"category"`
	Severity      Severity `json:"severity"`
	FleetValue    string   `json:"fleet_value"`
	DetectedValue string   `json:"detected_value"`
	Message       string   `json:"message"`
	FixSuggestion string   `json:"fix_suggestion,omitempty"`
}

// CheckID implements Finding.
func (d Discrepancy) CheckID() string { return d.ID }

// CheckSeverity implements Finding.
func (d Discrepancy) CheckSeverity() Severity { return d.Severity }

// Text implements Finding.
func (d Discrepancy) Text() string { return d.Message }

// Finding is the common view over validation results and discrepancies,
// used by prioritization and rendering.
type Finding interface {
	CheckID() string
	CheckSeverity() Severity
	Text() string
}
