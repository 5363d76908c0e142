package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/report"
)

var (
	reportOut         *string
	reportIssues      *bool
	reportModelFilter *string
	reportNoteFilter  *string
	reportFieldFilter *[]string
	reportCatalogPath *string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates an HTML report of the conversion catalog",
	Long:  "Creates an HTML report listing the catalog records and their eligibility, or the issues found in the catalog source",
	Args:  cobra.NoArgs,
	RunE:  RunAndHandleError(runReportCmd),
}

// Registers the report command
func init() {
	reportOut = reportCmd.PersistentFlags().String("out", "catalog.html", "Path of the report.")
	reportIssues = reportCmd.PersistentFlags().Bool("issues", false, "Report the issues of the catalog source instead of its records.")
	reportModelFilter = reportCmd.PersistentFlags().String("model", "", "Regular expression to filter by model name.")
	reportNoteFilter = reportCmd.PersistentFlags().String("note", "", "Regular expression to filter by distribution channel.")
	reportFieldFilter = reportCmd.PersistentFlags().StringSlice("field", nil, "Regular expression to filter by field, as FIELD=regexp, or by any field.")
	reportCatalogPath = reportCmd.PersistentFlags().String("catalog", "", "Catalog source to report instead of the embedded one.")

	rootCmd.AddCommand(reportCmd)
}

// writeReport writes the issues report, or the catalog report narrowed by the filter when it is not
// empty.
func writeReport(c *catalog.Catalog, w io.Writer, issues bool, filter *catalog.Filter) error {
	switch {
	case issues:
		return report.ReportIssues(c, w)
	case filter != nil && !filter.IsEmpty():
		return report.ReportCatalogFiltered(c, w, filter)
	}
	return report.ReportCatalog(c, w)
}

// runReportCmd loads the catalog and generates the requested html report
func runReportCmd(command *cobra.Command, args []string) error {
	c, err := loadCatalog(*reportCatalogPath, false)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	filter, err := catalog.CreateFilter(*reportModelFilter, *reportNoteFilter, *reportFieldFilter)
	if err != nil {
		return err
	}

	of, err := os.Create(*reportOut)
	if err != nil {
		return err
	}
	fmt.Println("Creating", of.Name())
	if err := writeReport(c, of, *reportIssues, &filter); err != nil {
		of.Close()
		return err
	}
	return of.Close()
}
