package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/morrillo/blo-migration/internal/bootstrap"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/config"
	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
	"github.com/morrillo/blo-migration/internal/infrastructure/report"
)

// runRequest is what the command line asks one run to do
type runRequest struct {
	Mode        migration.Mode
	Attachments *bool
	UserID      int64
}

// runner executes a run and releases its resources on close
type runner interface {
	Run(ctx context.Context, req runRequest) (*migration.Report, error)
	Close(ctx context.Context) error
}

type runnerFactory func(ctx context.Context) (runner, error)

type flags struct {
	attachments bool
	reportPath  string
	userID      int64
}

func newRootCommand(newRunner runnerFactory) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "invoicemigrate",
		Short:         "Migrate open and paid legacy customer invoices",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&f.attachments, "attachments", false, "copy invoice attachments into blob storage")
	root.PersistentFlags().StringVar(&f.reportPath, "report", "", "write the run report as an xlsx workbook to this path")
	root.PersistentFlags().Int64Var(&f.userID, "user-id", 0, "acting user recorded on migrated invoices (default: configured user)")

	root.AddCommand(
		modeCommand(migration.ModeRPC, "Read legacy invoices through the remote RPC interface", f, newRunner),
		modeCommand(migration.ModeSQL, "Read legacy invoices directly from the legacy database", f, newRunner),
	)
	return root
}

func modeCommand(mode migration.Mode, short string, f *flags, newRunner runnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   string(mode),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := runRequest{Mode: mode, UserID: f.userID}
			if cmd.Flags().Changed("attachments") {
				req.Attachments = &f.attachments
			}
			return execute(cmd.Context(), cmd.OutOrStdout(), newRunner, req, f.reportPath)
		},
	}
}

func execute(ctx context.Context, out io.Writer, newRunner runnerFactory, req runRequest, reportPath string) error {
	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = r.Close(closeCtx)
	}()

	rep, runErr := r.Run(ctx, req)
	if rep != nil {
		printSummary(out, rep)
		if reportPath != "" {
			if err := writeReportFile(reportPath, rep); err != nil {
				if runErr == nil {
					return err
				}
				fmt.Fprintf(out, "report not written: %v\n", err)
			}
		}
	}
	if runErr != nil {
		fmt.Fprintf(out, "run aborted (%s): %v\n", migration.ErrorCode(runErr), runErr)
	}
	return runErr
}

func printSummary(out io.Writer, r *migration.Report) {
	fmt.Fprintf(out, "run %s (%s): %d eligible, %d created, %d skipped, %d failed in %s\n",
		r.RunID, r.Mode, r.Eligible, r.Created(), r.Skipped(), r.Failed(), r.Duration().Round(time.Millisecond))
	for _, o := range r.Failures() {
		fmt.Fprintf(out, "  invoice %d: %s %s\n", o.LegacyID, o.ErrorCode, o.Reason)
	}
}

func writeReportFile(path string, r *migration.Report) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", cerr)
		}
	}()
	return report.WriteXLSX(r, file)
}

// appRunner runs against the wired application
type appRunner struct {
	app *bootstrap.App
	log *zap.Logger
}

func newAppRunner(ctx context.Context) (runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &migration.ConfigurationError{Invalid: []string{err.Error()}}
	}
	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		_ = logger.Sync(log)
		return nil, err
	}
	return &appRunner{app: app, log: log}, nil
}

func (a *appRunner) Run(ctx context.Context, req runRequest) (*migration.Report, error) {
	connector, err := a.app.Connector(req.Mode)
	if err != nil {
		return nil, err
	}

	mctx := a.app.Context
	if req.UserID > 0 {
		mctx.ActingUserID = req.UserID
	}
	opts := a.app.Defaults
	if req.Attachments != nil {
		opts.CopyAttachments = *req.Attachments
	}

	return a.app.Service.Run(ctx, connector, mctx, opts)
}

func (a *appRunner) Close(ctx context.Context) error {
	err := a.app.Close(ctx)
	_ = logger.Sync(a.log)
	return err
}

