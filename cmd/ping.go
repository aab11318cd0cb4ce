package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/slighter12/unity-mcp-go/logger"
)

var pingTimeout time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the Unity editor bridge answers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := logger.InitStdio(logger.GetLevelFromString(cfg.Logging.Level), logger.Format(cfg.Logging.Format)); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()

		bridge := newBridge(cfg, nil)
		defer bridge.Close()

		rtt, err := bridge.Ping(ctx)
		if err != nil {
			return fmt.Errorf("unity editor at %s did not answer: %w", cfg.Unity.Address(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pong from %s in %s\n", cfg.Unity.Address(), rtt.Round(time.Microsecond))
		return nil
	},
}

func init() {
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 10*time.Second, "overall timeout")
	rootCmd.AddCommand(pingCmd)
}
