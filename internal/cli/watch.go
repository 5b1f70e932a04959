package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hexaforge/imwrap/internal/config"
	"github.com/hexaforge/imwrap/internal/logging"
	"github.com/hexaforge/imwrap/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <header>",
	Short: "Regenerate bindings whenever the header changes",
	Long: `Watch generates the bindings once, then keeps watching the header file
and regenerates on every change. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, cfg *config.Config, headerPath string) error {
	log := logging.Named("cli")

	// The initial run fails hard: a bad header path or config should not
	// park the process in a wait loop.
	if err := runGenerate(cfg, headerPath); err != nil {
		return err
	}

	fw, err := watcher.NewHeaderWatcher([]string{headerPath})
	if err != nil {
		return err
	}
	defer fw.Stop()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fw.Start(ctx, func(files []string) {
		runID := uuid.New().String()
		log.Infow("header changed", "run_id", runID, "files", files)
		if err := runGenerate(cfg, headerPath); err != nil {
			log.Errorw("generation failed", "run_id", runID, "error", err)
			return
		}
		log.Infow("generation complete", "run_id", runID)
	}); err != nil {
		return err
	}

	log.Infow("watching for changes", "header", headerPath)
	<-ctx.Done()
	log.Infow("shutting down")
	return nil
}
