package main

import (
	"github.com/spf13/cobra"

	"github.com/siohaza/recursedit/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <paths...>",
	Short: "Check map scripts again whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := watch.New(args...)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := cmd.Context()
	logger.Info("watching", "paths", args)
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			if err := checkFile(ctx, path); err != nil {
				logger.Error("check failed", "file", path, "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-ctx.Done():
			logger.Info("stopped watching")
			return nil
		}
	}
}
