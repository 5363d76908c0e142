package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"

	"github.com/sihwankim2023/kd-boiler-checker/selector"
)

var (
	decideSelection selector.Selection
	decideJson      *bool
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Decides whether a boiler allows the flue conversion",
	Long: `Looks up the boiler given by all six selection fields in the catalog and prints whether its
supply/exhaust conversion is allowed`,
	Args: cobra.NoArgs,
	RunE: RunAndHandleError(runDecideCmd),
}

// addSelectionFlags binds one flag per selection step to sel.
func addSelectionFlags(command *cobra.Command, sel *selector.Selection) {
	flags := command.PersistentFlags()
	flags.StringVar(&sel.Category, "category", "", "Category (구분), for example 일반형.")
	flags.StringVar(&sel.Subtype, "subtype", "", "Subtype (세부구분), for example 개방식.")
	flags.StringVar(&sel.ModelName, "model", "", "Model name (모델명), for example NGB553.")
	flags.StringVar(&sel.Capacity, "capacity", "", "Capacity label (용량), for example 20K.")
	flags.StringVar(&sel.Fuel, "fuel", "", "Fuel (사용연료), LNG or LPG.")
	flags.StringVar(&sel.ExhaustMode, "exhaust", "", "Exhaust mode (급배기방식), FF or FE.")
}

// decide checks every chosen value against the candidates offered before deciding.
func decide(s *selector.Selector, sel selector.Selection) (selector.Decision, error) {
	if !sel.Complete() {
		return selector.Decision{}, errors.Wrap(selector.ErrIncomplete, "all six selection flags are required")
	}
	if err := s.Validate(sel); err != nil {
		return selector.Decision{}, err
	}
	return s.Decide(sel)
}

type decisionOutput struct {
	Outcome       selector.Outcome `json:"outcome"`
	ApplianceName string           `json:"appliance_name,omitempty"`
	Verdict       string           `json:"verdict,omitempty"`
	Summary       string           `json:"summary"`
	Line          int              `json:"line,omitempty"`
}

// printDecision prints the verdict and the summary sentence, or a json object.
func printDecision(w io.Writer, d selector.Decision, asJson bool) error {
	if asJson {
		out := decisionOutput{
			Outcome:       d.Outcome,
			ApplianceName: d.ApplianceName(),
			Verdict:       d.Verdict(),
			Summary:       d.Summary(),
		}
		if d.Found() {
			out.Line = d.Record.Line
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if d.Found() {
		fmt.Fprintf(w, "전환여부 : %s\n", d.Verdict())
	}
	fmt.Fprintln(w, d.Summary())
	return nil
}

// the run command for decide
func runDecideCmd(command *cobra.Command, args []string) error {
	c, err := loadCatalog("", false)
	if err != nil {
		return err
	}
	d, err := decide(selector.New(c), decideSelection)
	if err != nil {
		return err
	}
	return printDecision(os.Stdout, d, *decideJson)
}

// Registers the decide command
func init() {
	addSelectionFlags(decideCmd, &decideSelection)
	decideJson = decideCmd.PersistentFlags().Bool("json", false, "Output the decision as json.")
	rootCmd.AddCommand(decideCmd)
}
