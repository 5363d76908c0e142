package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/daedaleanai/cobra"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
)

var (
	listModelFilter *string
	listNoteFilter  *string
	listFieldFilter *[]string
	listCatalogPath *string

	listCsvFormat *bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the boiler models of the conversion catalog",
	Long:  `Lists the boiler models of the conversion catalog with their conversion eligibility, optionally filtered`,
	Args:  cobra.NoArgs,
	RunE:  RunAndHandleError(runListCmd),
}

// list the catalog records matching the filter
func runListCmd(command *cobra.Command, args []string) error {
	c, err := loadCatalog(*listCatalogPath, false)
	if err != nil {
		return err
	}
	filter, err := catalog.CreateFilter(*listModelFilter, *listNoteFilter, *listFieldFilter)
	if err != nil {
		return err
	}
	if *listCsvFormat {
		return printCsv(os.Stdout, c.Select(&filter))
	}
	printConcise(os.Stdout, c.Select(&filter))
	return nil
}

// printConcise prints one line per record: model, classification, fuel, exhaust mode and capacities
// followed by the distribution channel and the eligibility.
func printConcise(w io.Writer, records []catalog.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%s (%s/%s) %s %s [%s] %s: %s\n",
			r.ModelName, r.Category, r.Subtype, r.Fuel, r.ExhaustMode, r.Capacity, r.Note, r.Eligibility)
	}
}

// printCsv prints the records in csv format, one column per field
func printCsv(w io.Writer, records []catalog.Record) error {
	csvwriter := csv.NewWriter(w)
	header := make([]string, 0, len(catalog.FieldNames))
	for _, name := range catalog.FieldNames {
		header = append(header, cases.Title(language.BritishEnglish).String(name))
	}
	if err := csvwriter.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		fields := r.Fields()
		row := make([]string, 0, len(catalog.FieldNames))
		for _, name := range catalog.FieldNames {
			row = append(row, fields[name])
		}
		if err := csvwriter.Write(row); err != nil {
			return err
		}
	}
	csvwriter.Flush()
	return csvwriter.Error()
}

// Registers the list command
func init() {
	listModelFilter = listCmd.PersistentFlags().String("model", "", "Regular expression to filter by model name.")
	listNoteFilter = listCmd.PersistentFlags().String("note", "", "Regular expression to filter by distribution channel.")
	listFieldFilter = listCmd.PersistentFlags().StringSlice("field", nil, "Regular expression to filter by field, as FIELD=regexp, or by any field.")
	listCatalogPath = listCmd.PersistentFlags().String("catalog", "", "Catalog source to list instead of the embedded one.")

	listCsvFormat = listCmd.PersistentFlags().Bool("csv", false, "Output in csv format.")

	rootCmd.AddCommand(listCmd)
}
