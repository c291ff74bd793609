package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sleroq/keep-to-obsidian/internal/app/importer"
	"github.com/sleroq/keep-to-obsidian/internal/app/progressui"
	"github.com/sleroq/keep-to-obsidian/internal/infra/takeout"
	"github.com/sleroq/keep-to-obsidian/internal/logging"
)

func newImportCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "import PATH...",
		Short: "Import Takeout files, folders or .zip archives",
		Long: "Import Google Keep notes and attachments from Takeout files, folders or .zip archives.\n" +
			"JSON notes become markdown files, attachments are copied next to them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			s, err := e.store.LoadOrDefault()
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			interactive := !plain && progressui.IsTerminal(stderr)

			logOpts := logging.Options{Level: e.cfg.LogLevel, File: e.cfg.LogFile}
			if !interactive {
				logOpts.Console = stderr
			}
			logger, err := logging.New(logOpts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			batch, err := takeout.Collect(args)
			if err != nil {
				return err
			}
			defer batch.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			imp := importer.New(e.vault, s, logger)
			done := make(chan error, 1)
			go func() {
				done <- imp.Import(ctx, batch.Files)
			}()

			entries, uiErr := progressui.Run(imp, len(batch.Files), progressui.Options{
				Out:   stderr,
				Plain: !interactive,
			})
			if uiErr != nil {
				imp.Stop()
			}
			importErr := <-done

			p := imp.LatestProgress()
			if interactive {
				for _, entry := range entries {
					if entry.Status == importer.LogError {
						fmt.Fprintf(stderr, "%s %s: %s\n", entry.Status, entry.Title, entry.Desc)
					}
				}
			}
			if imp.State() == importer.StateCancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "import cancelled")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d, failed %d of %d files\n",
				p.Success, p.Skip, p.Fail, imp.TotalImports())

			logger.Info("import summary",
				zap.String("vault", e.cfg.Vault),
				zap.Int("success", p.Success),
				zap.Int("skipped", p.Skip),
				zap.Int("failed", p.Fail),
			)

			if uiErr != nil {
				return uiErr
			}
			if importErr != nil && !errors.Is(importErr, context.Canceled) {
				return importErr
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per file instead of the interactive progress view")
	return cmd
}
