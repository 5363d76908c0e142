package cmd

import (
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/config"
	"github.com/sihwankim2023/kd-boiler-checker/util"
)

var rootCmd = &cobra.Command{
	Use:   "fluecheck",
	Short: "Fluecheck checks whether a gas boiler model allows a flue conversion.",
	Long: `Fluecheck looks up gas boiler models in the conversion catalog, decides whether the
supply/exhaust (FF/FE) conversion is allowed and produces the appliance change
confirmation document for a converted boiler.`,
	Version: fmt.Sprintf("%d.%d.%d", util.Version.Major, util.Version.Minor, util.Version.Revision),
}

var (
	fConfigPath *string
	fVerbose    *bool
)

// loadConfiguration reads the program configuration. The verbose flag forces the debug level.
func loadConfiguration() (*config.Config, error) {
	cfg, err := config.Load(*fConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if *fVerbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setupLogger builds the logger of a command from the configuration.
func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := config.InitLogger(cfg.Log)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	return logger, nil
}

// loadCatalog loads the catalog source at path, or the embedded catalog when path is empty.
func loadCatalog(path string, rejectDuplicates bool) (*catalog.Catalog, error) {
	opts := catalog.LoadOptions{Source: path, RejectDuplicates: rejectDuplicates}
	if path == "" {
		return catalog.DefaultWithOptions(opts)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return catalog.Load(data, opts)
}

// Initializes the root command flags
func init() {
	fConfigPath = rootCmd.PersistentFlags().String("config", "", "Path of the configuration file (default ./fluecheck.yaml when present).")
	fVerbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logs.")
}

// RunRootCommand runs the command selected by the program arguments.
func RunRootCommand() error {
	return rootCmd.Execute()
}

// RunAndHandleError returns a RunE function that runs the specified RunE
// function and exits if it returns an error.
func RunAndHandleError(runE func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	// Wrap the specified runE func in a new func with the same signature.
	return func(cmd *cobra.Command, args []string) error {
		// Cobra does not tell a failing RunE apart from an argument parsing error, so errors
		// are reported here and the exit code is set explicitly.
		// See https://github.com/spf13/cobra/issues/914
		if errRun := runE(cmd, args); errRun != nil {
			// For example: "cmd.runValidate"
			s := runtime.FuncForPC(reflect.ValueOf(runE).Pointer()).Name()
			s = s[strings.LastIndex(s, "/")+1:]
			fmt.Println(errors.Wrap(errRun, s))
			os.Exit(1)
		}
		return nil
	}
}
