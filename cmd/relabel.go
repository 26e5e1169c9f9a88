package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/labelmend/internal/config"
	"github.com/joshsymonds/labelmend/internal/rate"
	"github.com/joshsymonds/labelmend/internal/relabel"
	"github.com/joshsymonds/labelmend/internal/retry"
	"github.com/joshsymonds/labelmend/internal/runtime"
)

func newRelabelCmd() *cobra.Command {
	var (
		authDir       string
		cfgFile       string
		labels        []string
		since         string
		until         string
		dryRun        bool
		includeSystem bool
		reportPath    string
		pageSize      int
		batchSize     int
		unitsPerSec   int
	)

	cmd := &cobra.Command{
		Use:   "relabel",
		Short: "Relabel all messages in labeled threads (label inheritance)",
		Long: `Scan every thread carrying an inheritable label and add the thread's
labels to each message that lacks them. The operation is idempotent and
strictly additive, so an interrupted run can simply be repeated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			logger := runtime.DefaultLogger()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = cfg.Relabel.PageSize
			}
			if batchSize == 0 {
				batchSize = cfg.Relabel.BatchSize
			}
			if unitsPerSec == 0 {
				unitsPerSec = cfg.Quota.UnitsPerSecond
			}
			inheritSystem := includeSystem || cfg.Relabel.InheritSystem

			spec := relabel.Spec{
				Labels:    labels,
				DryRun:    dryRun,
				PageSize:  pageSize,
				BatchSize: batchSize,
			}
			today := time.Now()
			if since != "" {
				if spec.Since, err = relabel.ParseDate(since, today); err != nil {
					return err
				}
			}
			if until != "" {
				if spec.Until, err = relabel.ParseDate(until, today); err != nil {
					return err
				}
			}

			scope := runtime.ScopeModify
			if dryRun {
				scope = runtime.ScopeReadonly
			}
			client, err := runtime.NewGmailClient(ctx, authDir, scope)
			if err != nil {
				return fmt.Errorf("create gmail client: %w", err)
			}

			svc := relabel.NewService(client, rate.NewTokenBucket(unitsPerSec), logger)
			svc.Policy = relabel.NewPolicy(cfg.Relabel.ExcludeLabels, cfg.Relabel.UserPrefix, inheritSystem)
			svc.Retry = retryPolicy(cfg.Retry)
			svc.Costs = relabel.Costs{
				LabelsList:  cfg.Quota.LabelsList,
				ThreadsList: cfg.Quota.ThreadsList,
				ThreadsGet:  cfg.Quota.ThreadsGet,
				BatchModify: cfg.Quota.BatchModify,
			}

			rep, runErr := svc.Run(ctx, spec)
			if printErr := relabel.PrintHuman(rep, os.Stdout); printErr != nil {
				logger.Error("print summary failed", "error", printErr)
			}
			if reportPath != "" {
				if writeErr := relabel.WriteJSON(rep, reportPath); writeErr != nil {
					logger.Error("write report failed", "error", writeErr)
				}
			}
			if runErr != nil {
				return fmt.Errorf("run relabel: %w", runErr)
			}
			if rep.Failed() {
				return fmt.Errorf("%d threads could not be fully reconciled", len(rep.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&authDir, "config", os.ExpandEnv("$HOME/.gmailctl"), "gmailctl auth directory")
	cmd.Flags().StringVar(&cfgFile, "config-file", config.DefaultPath(), "labelmend config file")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "restrict to these user labels (default: all)")
	cmd.Flags().StringVar(&since, "since", "", "only threads more recent than this date")
	cmd.Flags().StringVar(&until, "until", "", "only threads less recent than this date")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log only; skip modifications")
	cmd.Flags().BoolVar(&includeSystem, "include-system", false, "also inherit non-excluded system labels")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a JSON run report to this relative path")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "thread list page size (<=500)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "messages per batch-modify call")
	cmd.Flags().IntVar(&unitsPerSec, "units-per-sec", 0, "Gmail quota unit budget per second")
	return cmd
}

func retryPolicy(cfg config.RetryConfig) retry.Policy {
	p := retry.DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = uint64(cfg.MaxAttempts)
	}
	if d, err := time.ParseDuration(cfg.InitialInterval); err == nil && d > 0 {
		p.InitialInterval = d
	}
	return p
}
