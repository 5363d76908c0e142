// Loads and queries the reference catalog of boiler models

package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sihwankim2023/kd-boiler-checker/diagnostics"
)

//go:embed catalog.yaml
var defaultSource []byte

// DefaultSourceName is the name reported in diagnostics for the embedded catalog.
const DefaultSourceName = "catalog/catalog.yaml"

/// Internal types for parsing the yaml source

type yamlRecord struct {
	Category    string `yaml:"category"`
	Subtype     string `yaml:"subtype"`
	Model       string `yaml:"model"`
	Fuel        string `yaml:"fuel"`
	Exhaust     string `yaml:"exhaust"`
	Capacity    string `yaml:"capacity"`
	Note        string `yaml:"note"`
	Eligibility string `yaml:"eligibility"`
}

/// Types exported for application use

// Catalog is the immutable, ordered table of boiler records.
type Catalog struct {
	records []Record
	issues  []diagnostics.Issue
	source  string
}

// LoadOptions controls how a catalog source is validated.
type LoadOptions struct {
	// Source names the catalog in diagnostics.
	Source string
	// RejectDuplicates turns records sharing a six-field selection key into major issues.
	// Otherwise they are reported as minor issues and the first record wins.
	RejectDuplicates bool
}

// LoadError is returned when the catalog source contains major issues.
type LoadError struct {
	Issues []diagnostics.Issue
}

func (e *LoadError) Error() string {
	var major []string
	for _, issue := range e.Issues {
		if issue.Severity == diagnostics.IssueSeverityMajor {
			major = append(major, issue.String())
		}
	}
	return fmt.Sprintf("invalid catalog, %d major issues:\n%s", len(major), strings.Join(major, "\n"))
}

var loadDefault = sync.OnceValue(func() *Catalog {
	c, err := Load(defaultSource, LoadOptions{Source: DefaultSourceName})
	if err != nil {
		panic(errors.Wrap(err, "embedded catalog"))
	}
	return c
})

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	return loadDefault()
}

// DefaultWithOptions loads the embedded catalog again with the given validation options.
func DefaultWithOptions(opts LoadOptions) (*Catalog, error) {
	if opts.Source == "" {
		opts.Source = DefaultSourceName
	}
	return Load(defaultSource, opts)
}

// Load parses a yaml catalog source, a sequence of records, and validates every record against
// the closed sets of categories, subtypes, fuels, exhaust modes and eligibility labels.
func Load(data []byte, opts LoadOptions) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("catalog is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("%s:%d: catalog must be a sequence of records", opts.Source, root.Line)
	}

	c := &Catalog{source: opts.Source}
	for i, node := range root.Content {
		var raw yamlRecord
		if err := node.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, "%s:%d: decode record", opts.Source, node.Line)
		}
		record, issues := raw.toRecord(i, node.Line, opts.Source)
		c.records = append(c.records, record)
		c.issues = append(c.issues, issues...)
	}
	c.issues = append(c.issues, c.checkDuplicates(opts)...)

	if diagnostics.HasMajor(c.issues) {
		return nil, &LoadError{Issues: c.issues}
	}
	return c, nil
}

// toRecord converts and validates one parsed record.
func (y yamlRecord) toRecord(position, line int, source string) (Record, []diagnostics.Issue) {
	var issues []diagnostics.Issue
	problem := func(t diagnostics.IssueType, format string, args ...interface{}) {
		issues = append(issues, diagnostics.Issue{
			Path:     source,
			Line:     line,
			Error:    fmt.Errorf(format, args...),
			Severity: diagnostics.IssueSeverityMajor,
			Type:     t,
		})
	}

	r := Record{
		Position:    position,
		Line:        line,
		ModelName:   strings.TrimSpace(y.Model),
		Capacity:    strings.TrimSpace(y.Capacity),
		Note:        strings.TrimSpace(y.Note),
		Eligibility: strings.TrimSpace(y.Eligibility),
	}

	required := []struct{ name, value string }{
		{"category", y.Category}, {"subtype", y.Subtype}, {"model", y.Model}, {"fuel", y.Fuel},
		{"exhaust", y.Exhaust}, {"capacity", y.Capacity}, {"eligibility", y.Eligibility},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			problem(diagnostics.IssueTypeMissingField, "record %d has no %s", position+1, field.name)
		}
	}

	var ok bool
	if y.Category != "" {
		if r.Category, ok = ParseCategory(strings.TrimSpace(y.Category)); !ok {
			problem(diagnostics.IssueTypeInvalidCategory, "unknown category `%s`", y.Category)
		}
	}
	if y.Subtype != "" {
		if r.Subtype, ok = ParseSubtype(strings.TrimSpace(y.Subtype)); !ok {
			problem(diagnostics.IssueTypeInvalidSubtype, "unknown subtype `%s`", y.Subtype)
		}
	}
	if y.Fuel != "" {
		if r.Fuel, ok = ParseFuel(strings.TrimSpace(y.Fuel)); !ok {
			problem(diagnostics.IssueTypeInvalidFuel, "unknown fuel `%s`", y.Fuel)
		}
	}
	if y.Exhaust != "" {
		if r.ExhaustMode, ok = ParseExhaustMode(strings.TrimSpace(y.Exhaust)); !ok {
			problem(diagnostics.IssueTypeInvalidExhaustMode, "unknown exhaust mode `%s`", y.Exhaust)
		}
	}

	switch {
	case r.Eligibility == "":
	case strings.Contains(r.Eligibility, EligibilityConvertible):
		r.Convertible = true
	case strings.Contains(r.Eligibility, EligibilityNotConvertible):
	default:
		problem(diagnostics.IssueTypeInvalidEligibility, "eligibility `%s` is neither %s nor %s",
			r.Eligibility, EligibilityConvertible, EligibilityNotConvertible)
	}

	if r.Capacity != "" && !r.HasNoCapacity() {
		labels := r.Capacities()
		if len(labels) == 0 {
			problem(diagnostics.IssueTypeInvalidCapacity, "capacity `%s` has no labels", r.Capacity)
		}
		seen := make(map[string]bool, len(labels))
		for _, label := range labels {
			if label == NoCapacity {
				problem(diagnostics.IssueTypeInvalidCapacity, "%s must be the only capacity label", NoCapacity)
			}
			if seen[label] {
				problem(diagnostics.IssueTypeInvalidCapacity, "capacity label `%s` is repeated", label)
			}
			seen[label] = true
		}
	}

	return r, issues
}

// selectionKey identifies the records a fully specified selection can match.
type selectionKey struct {
	category    Category
	subtype     Subtype
	model       string
	capacity    string
	fuel        Fuel
	exhaustMode ExhaustMode
}

// checkDuplicates reports records that share a complete selection with an earlier record.
// Lookups always return the earlier record first.
func (c *Catalog) checkDuplicates(opts LoadOptions) []diagnostics.Issue {
	severity := diagnostics.IssueSeverityMinor
	if opts.RejectDuplicates {
		severity = diagnostics.IssueSeverityMajor
	}

	var issues []diagnostics.Issue
	first := make(map[selectionKey]Record)
	for _, r := range c.records {
		for _, label := range r.Capacities() {
			key := selectionKey{r.Category, r.Subtype, r.ModelName, label, r.Fuel, r.ExhaustMode}
			prev, ok := first[key]
			if !ok {
				first[key] = r
				continue
			}
			issues = append(issues, diagnostics.Issue{
				Path: c.source,
				Line: r.Line,
				Error: fmt.Errorf("%s %s %s-%s (%s, %s) is shadowed by the record at line %d",
					r.Category, r.Subtype, r.ModelName, label, r.Fuel, r.ExhaustMode, prev.Line),
				Severity: severity,
				Type:     diagnostics.IssueTypeDuplicateKey,
			})
		}
	}
	return issues
}

// Records returns a copy of all records in declaration order.
func (c *Catalog) Records() []Record {
	return append([]Record(nil), c.records...)
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Issues returns the non fatal issues found while loading.
func (c *Catalog) Issues() []diagnostics.Issue {
	return append([]diagnostics.Issue(nil), c.issues...)
}

// Source returns the name of the catalog source.
func (c *Catalog) Source() string {
	return c.source
}

// Lookup returns every record matching all non-empty fields of the query, in declaration order.
// An empty result is valid.
func (c *Catalog) Lookup(q Query) []Record {
	var matches []Record
	for _, r := range c.records {
		if q.Matches(r) {
			matches = append(matches, r)
		}
	}
	return matches
}
