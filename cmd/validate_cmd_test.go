package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sihwankim2023/kd-boiler-checker/diagnostics"
)

const duplicateSource = `
- {category: 콘덴싱, subtype: 밀폐식, model: M1, fuel: LNG, exhaust: FF, capacity: "16L, 20L", note: a, eligibility: 전환불가}
- {category: 콘덴싱, subtype: 밀폐식, model: M1, fuel: LNG, exhaust: FF, capacity: "20L", note: b, eligibility: 전환가능}
`

func writeSource(t *testing.T, source string) string {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestCatalogIssues_Embedded(t *testing.T) {
	issues, err := catalogIssues("", false)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCatalogIssues_Duplicates(t *testing.T) {
	path := writeSource(t, duplicateSource)

	issues, err := catalogIssues(path, false)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, diagnostics.IssueSeverityMinor, issues[0].Severity)
	assert.Equal(t, diagnostics.IssueTypeDuplicateKey, issues[0].Type)
	assert.Equal(t, path, issues[0].Path)
	assert.Equal(t, 3, issues[0].Line)

	issues, err = catalogIssues(path, true)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, diagnostics.IssueSeverityMajor, issues[0].Severity)
}

func TestCatalogIssues_InvalidRecords(t *testing.T) {
	path := writeSource(t, `
- {category: 가정용, subtype: 밀폐식, model: M1, fuel: LNG, exhaust: FF, capacity: "16L", eligibility: 전환불가}
- {category: 콘덴싱, subtype: 밀폐식, model: M2, fuel: LNG, exhaust: XX, capacity: "16L", eligibility: 모름}
`)
	issues, err := catalogIssues(path, false)
	require.NoError(t, err)

	var types []diagnostics.IssueType
	for _, issue := range issues {
		assert.Equal(t, diagnostics.IssueSeverityMajor, issue.Severity)
		types = append(types, issue.Type)
	}
	assert.ElementsMatch(t, []diagnostics.IssueType{
		diagnostics.IssueTypeInvalidCategory,
		diagnostics.IssueTypeInvalidExhaustMode,
		diagnostics.IssueTypeInvalidEligibility,
	}, types)
}

func TestCatalogIssues_UnreadableSource(t *testing.T) {
	_, err := catalogIssues(filepath.Join(t.TempDir(), "missing.yaml"), false)
	assert.Error(t, err)

	_, err = catalogIssues(writeSource(t, "category: not a list\n"), false)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	issues := []diagnostics.Issue{
		{Path: "c.yaml", Line: 3, Error: errors.New("shadowed"), Severity: diagnostics.IssueSeverityMinor, Type: diagnostics.IssueTypeDuplicateKey},
		{Path: "c.yaml", Line: 9, Error: errors.New("just a note"), Severity: diagnostics.IssueSeverityNote, Type: diagnostics.IssueTypeInvalidCapacity},
	}

	var buf bytes.Buffer
	criticalCount, printed := validate(&buf, issues, false)
	assert.Equal(t, 1, criticalCount)
	assert.Equal(t, 2, printed)
	assert.Equal(t, "c.yaml:3: warning: shadowed\nc.yaml:9: note: just a note\n", buf.String())

	buf.Reset()
	criticalCount, printed = validate(&buf, issues, true)
	assert.Equal(t, 1, criticalCount)
	assert.Equal(t, 1, printed)
	assert.NotContains(t, buf.String(), "just a note")
}

func TestBuildJsonIssues(t *testing.T) {
	issues, err := catalogIssues(writeSource(t, duplicateSource), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, buildJsonIssues(issues, json.NewEncoder(&buf)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var msg LintMessage
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &msg))
	assert.Equal(t, LintMessage{
		Name:        "Duplicate selection key",
		Code:        "CAT8",
		Severity:    "warning",
		Path:        issues[0].Path,
		Line:        3,
		Description: issues[0].Error.Error(),
	}, msg)
}
