package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/report"
)

var (
	exportXlsx        *bool
	exportCatalogPath *string
)

var exportCmd = &cobra.Command{
	Use:   "export OUT_DIR",
	Args:  cobra.ExactArgs(1),
	Short: "Export the conversion catalog as JSON",
	Long: `The catalog exported as JSON can be analyzed by other tools, edited and validated or listed
again, since it uses the field names of the catalog source.`,
	RunE: RunAndHandleError(runExport),
}

// Base names of the exported files.
const (
	exportJsonName = "catalog.json"
	exportXlsxName = "catalog.xlsx"
)

// exportedRecord is turned into JSON to be consumed by external clients. Its keys are the keys of
// the catalog source so the export loads as a catalog again.
type exportedRecord struct {
	Category    string `json:"category"`
	Subtype     string `json:"subtype"`
	Model       string `json:"model"`
	Fuel        string `json:"fuel"`
	Exhaust     string `json:"exhaust"`
	Capacity    string `json:"capacity"`
	Note        string `json:"note"`
	Eligibility string `json:"eligibility"`
}

// newExportedCatalog copies the records out of the catalog to be exported.
func newExportedCatalog(records []catalog.Record) []exportedRecord {
	data := make([]exportedRecord, 0, len(records))
	for _, r := range records {
		data = append(data, exportedRecord{
			Category:    string(r.Category),
			Subtype:     string(r.Subtype),
			Model:       r.ModelName,
			Fuel:        string(r.Fuel),
			Exhaust:     string(r.ExhaustMode),
			Capacity:    r.Capacity,
			Note:        r.Note,
			Eligibility: r.Eligibility,
		})
	}
	return data
}

// exportCatalog writes the catalog records as JSON file, and as spreadsheet when asked to.
func exportCatalog(c *catalog.Catalog, dirPath string, withXlsx bool) ([]string, error) {
	filePath := filepath.Join(dirPath, exportJsonName)
	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	jsonWriter := json.NewEncoder(file)
	jsonWriter.SetIndent("", "  ")
	jsonWriter.SetEscapeHTML(false)
	if err := jsonWriter.Encode(newExportedCatalog(c.Records())); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "JSON encoding")
	}
	if err := file.Close(); err != nil {
		return nil, err
	}
	paths := []string{filePath}
	if !withXlsx {
		return paths, nil
	}

	xlsxPath := filepath.Join(dirPath, exportXlsxName)
	file, err = os.Create(xlsxPath)
	if err != nil {
		return nil, err
	}
	if err := report.WriteCatalogXLSX(file, c.Records()); err != nil {
		file.Close()
		return nil, err
	}
	return append(paths, xlsxPath), file.Close()
}

// the run command for export
func runExport(command *cobra.Command, args []string) error {
	c, err := loadCatalog(*exportCatalogPath, false)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	paths, err := exportCatalog(c, args[0], *exportXlsx)
	if err != nil {
		return errors.Wrap(err, "export catalog")
	}
	for _, p := range paths {
		fmt.Println("Exported to:", p)
	}
	return nil
}

// Registers the export command
func init() {
	exportXlsx = exportCmd.PersistentFlags().Bool("xlsx", false, "Also export the catalog as a spreadsheet.")
	exportCatalogPath = exportCmd.PersistentFlags().String("catalog", "", "Catalog source to export instead of the embedded one.")
	rootCmd.AddCommand(exportCmd)
}
