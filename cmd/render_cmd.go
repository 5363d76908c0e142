package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
)

// formValues are the form fields given on the command line.
type formValues struct {
	Quantity      int
	Date          string
	Affiliation   string
	Worker        string
	Qualification int
	Company       string
	Manager       string
}

var (
	renderSelection selector.Selection
	renderForm      formValues
	renderOutDir    *string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders the appliance change confirmation of a converted boiler",
	Long: `Decides the boiler given by the selection flags and, when its conversion is allowed, writes the
appliance change confirmation (연소기 변경 확인서) as a word document and as a PDF`,
	Args: cobra.NoArgs,
	RunE: RunAndHandleError(runRenderCmd),
}

// confirmationForm builds the form of a convertible decision from the command line values.
func confirmationForm(d selector.Decision, v formValues) (document.Form, error) {
	if !d.Convertible() {
		return document.Form{}, errors.New(d.Summary())
	}
	if v.Qualification < 1 || v.Qualification > len(document.WorkerQualifications) {
		return document.Form{}, errors.Wrapf(document.ErrUnknownQualification,
			"--qualification must be between 1 and %d", len(document.WorkerQualifications))
	}
	changeDate := time.Now()
	if v.Date != "" {
		var err error
		if changeDate, err = time.ParseInLocation("2006-01-02", v.Date, time.Local); err != nil {
			return document.Form{}, errors.Wrap(err, "--date")
		}
	}
	form := document.Form{
		Number:              document.DefaultNumber,
		ApplianceName:       d.ApplianceName(),
		Quantity:            v.Quantity,
		ChangeDate:          changeDate,
		WorkerAffiliation:   v.Affiliation,
		WorkerName:          v.Worker,
		WorkerQualification: document.WorkerQualifications[v.Qualification-1],
		InstallerCompany:    v.Company,
		SiteManager:         v.Manager,
	}
	return form, form.Validate()
}

// writeOutput writes both documents into dir and returns their paths.
func writeOutput(out document.Output, dir string) ([]string, error) {
	var paths []string
	for _, f := range []struct {
		name string
		data []byte
	}{
		{out.WordFileName(), out.Word},
		{out.PDFFileName(), out.PDF},
	} {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// the run command for render
func runRenderCmd(command *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	c, err := loadCatalog("", cfg.Catalog.RejectDuplicates)
	if err != nil {
		return err
	}
	d, err := decide(selector.New(c), renderSelection)
	if err != nil {
		return err
	}
	form, err := confirmationForm(d, renderForm)
	if err != nil {
		return err
	}
	opts, err := cfg.Document.RendererOptions()
	if err != nil {
		return err
	}
	out, err := document.NewRenderer(opts).Render(form)
	if err != nil {
		return err
	}
	paths, err := writeOutput(out, *renderOutDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println("Created", p)
	}
	return nil
}

// Registers the render command
func init() {
	addSelectionFlags(renderCmd, &renderSelection)
	flags := renderCmd.PersistentFlags()
	renderOutDir = flags.String("out", ".", "Directory the documents are written to.")
	flags.IntVar(&renderForm.Quantity, "quantity", 1, "Number of converted appliances (수량).")
	flags.StringVar(&renderForm.Date, "date", "", "Change date as YYYY-MM-DD (변경일자), today by default.")
	flags.StringVar(&renderForm.Affiliation, "affiliation", "", "Affiliation of the worker (소속).")
	flags.StringVar(&renderForm.Worker, "worker", "", "Name of the worker (성명).")
	flags.IntVar(&renderForm.Qualification, "qualification", 1, "Qualification of the worker, 1 to "+
		strconv.Itoa(len(document.WorkerQualifications))+" (작업자격).")
	flags.StringVar(&renderForm.Company, "company", "", "Installer company (시공업체).")
	flags.StringVar(&renderForm.Manager, "manager", "", "Site manager (시공관리자).")
	rootCmd.AddCommand(renderCmd)
}
