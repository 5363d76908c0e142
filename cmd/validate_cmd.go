package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/diagnostics"
)

var fValidateStrict *bool
var fValidateJson *string
var fOnlyErrors *bool
var fValidateRejectDuplicates *bool

var validateCmd = &cobra.Command{
	Use:   "validate [CATALOG.yaml]",
	Short: "Validates the conversion catalog",
	Long:  `Runs the load-time checks of the conversion catalog, the embedded one or the given source`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  RunAndHandleError(runValidate),
}

type LintMessage struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Path        string `json:"path"`
	Line        int    `json:"line"`
	Description string `json:"description"`
}

// Builds the lint messages of the issues found while loading the catalog
func buildJsonIssues(issues []diagnostics.Issue, jsonWriter *json.Encoder) error {
	for _, issue := range issues {
		name, code := issue.Type.Name()
		err := jsonWriter.Encode(LintMessage{
			Name:        name,
			Code:        code,
			Severity:    issue.Severity.String(),
			Path:        issue.Path,
			Line:        issue.Line,
			Description: issue.Error.Error(),
		})
		if err != nil {
			return errors.Wrap(err, "JSON encoding")
		}
	}
	return nil
}

// catalogIssues loads a catalog source and returns every issue found, including the ones that made
// the load fail.
func catalogIssues(path string, rejectDuplicates bool) ([]diagnostics.Issue, error) {
	c, err := loadCatalog(path, rejectDuplicates)
	if err == nil {
		return c.Issues(), nil
	}
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Issues, nil
	}
	return nil, err
}

// validate prints the issues and returns the number of critical ones and of all printed ones.
func validate(w io.Writer, issues []diagnostics.Issue, onlyErrors bool) (int, int) {
	criticalCount := 0
	printed := 0
	for _, issue := range issues {
		if issue.Severity != diagnostics.IssueSeverityNote {
			criticalCount++
		} else if onlyErrors {
			continue
		}
		fmt.Fprintln(w, issue)
		printed++
	}
	return criticalCount, printed
}

// the run command for validate
func runValidate(command *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	issues, err := catalogIssues(path, *fValidateRejectDuplicates)
	if err != nil {
		return err
	}

	if *fValidateJson != "" {
		file, err := os.Create(*fValidateJson)
		if err != nil {
			return errors.Wrap(err, "create json file")
		}
		if err := buildJsonIssues(issues, json.NewEncoder(file)); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}

	criticalCount, _ := validate(os.Stdout, issues, *fOnlyErrors)
	if criticalCount == 0 {
		fmt.Println("Validation passed")
		return nil
	}
	if *fValidateStrict {
		return errors.Errorf("ERROR. Validation failed with %d issues", criticalCount)
	}
	fmt.Println("WARNING. Validation failed")
	return nil
}

// Registers the validate command
func init() {
	fValidateStrict = validateCmd.PersistentFlags().Bool("strict", false, "Exit with error if any validation checks fail")
	fValidateJson = validateCmd.PersistentFlags().String("json", "", "Outputs a json file with lint messages in addition to a textual representation of the errors")
	fOnlyErrors = validateCmd.PersistentFlags().Bool("only-errors", false, "Only outputs actual errors")
	fValidateRejectDuplicates = validateCmd.PersistentFlags().Bool("reject-duplicates", false, "Report records sharing a selection key as errors")
	rootCmd.AddCommand(validateCmd)
}
