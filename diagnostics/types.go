package diagnostics

import "fmt"

type IssueType uint

const (
	IssueTypeMissingField IssueType = iota
	IssueTypeInvalidCategory
	IssueTypeInvalidSubtype
	IssueTypeInvalidFuel
	IssueTypeInvalidExhaustMode
	IssueTypeInvalidEligibility
	IssueTypeInvalidCapacity
	IssueTypeDuplicateKey
)

type IssueSeverity uint

const (
	IssueSeverityMajor IssueSeverity = iota
	IssueSeverityMinor
	IssueSeverityNote // Lint errors
)

// Issue is a problem found in the catalog source while loading it.
type Issue struct {
	Path     string
	Line     int
	Error    error
	Severity IssueSeverity
	Type     IssueType
}

// Name returns a short human readable name and a stable code for the issue type.
func (t IssueType) Name() (string, string) {
	switch t {
	case IssueTypeMissingField:
		return "Missing field", "CAT1"
	case IssueTypeInvalidCategory:
		return "Invalid category", "CAT2"
	case IssueTypeInvalidSubtype:
		return "Invalid subtype", "CAT3"
	case IssueTypeInvalidFuel:
		return "Invalid fuel", "CAT4"
	case IssueTypeInvalidExhaustMode:
		return "Invalid exhaust mode", "CAT5"
	case IssueTypeInvalidEligibility:
		return "Invalid eligibility", "CAT6"
	case IssueTypeInvalidCapacity:
		return "Invalid capacity list", "CAT7"
	case IssueTypeDuplicateKey:
		return "Duplicate selection key", "CAT8"
	}
	return "Unknown issue", "CAT0"
}

// String translates the severity into the value used by lint output.
func (s IssueSeverity) String() string {
	switch s {
	case IssueSeverityMajor:
		return "error"
	case IssueSeverityMinor:
		return "warning"
	case IssueSeverityNote:
		return "note"
	}
	return "error"
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: %s: %v", i.Path, i.Line, i.Severity, i.Error)
}

// HasMajor reports whether any of the issues is a major one.
func HasMajor(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == IssueSeverityMajor {
			return true
		}
	}
	return false
}
