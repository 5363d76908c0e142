package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daedaleanai/cobra"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/metrics"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
	"github.com/sihwankim2023/kd-boiler-checker/session"
	"github.com/sihwankim2023/kd-boiler-checker/web"
	"github.com/sihwankim2023/kd-boiler-checker/wizard"
)

var serveAddr *string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the web server of the conversion check",
	Long:  "Starts the web server guiding installers through the conversion check and the confirmation document",
	Args:  cobra.NoArgs,
	RunE:  RunAndHandleError(runServeCmd),
}

// sweepInterval is how often expired sessions are dropped.
const sweepInterval = time.Minute

// Starts the web server listening on the configured address until interrupted
func runServeCmd(command *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	if *serveAddr != "" {
		cfg.Server.Addr = *serveAddr
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	c, err := loadCatalog("", cfg.Catalog.RejectDuplicates)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	for _, issue := range c.Issues() {
		logger.Warn("catalog issue", zap.String("issue", issue.String()))
	}

	opts, err := cfg.Document.RendererOptions()
	if err != nil {
		return err
	}
	if len(opts.Font) == 0 {
		logger.Warn("no document.font_path configured, confirmation documents cannot be rendered until a Hangul font is set")
	}

	sel := selector.New(c)
	store := session.NewStore(func() *wizard.Wizard { return wizard.New(sel) }, cfg.Session.TTL(), logger.Named("session"))
	server := web.New(web.Options{
		Selector: sel,
		Renderer: document.NewRenderer(opts),
		Sessions: store,
		Metrics:  metrics.New(store.Len),
		Logger:   logger.Named("web"),
		Cookie:   cfg.Session.Cookie,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx, sweepInterval)

	logger.Info("catalog loaded", zap.String("source", c.Source()), zap.Int("records", c.Len()))
	return web.Serve(ctx, server, cfg.Server.Addr, cfg.Server.ShutdownTimeout(), logger)
}

// Registers the serve command
func init() {
	serveAddr = serveCmd.PersistentFlags().String("addr", "", "The ip:port where to serve, overrides server.addr.")
	rootCmd.AddCommand(serveCmd)
}
