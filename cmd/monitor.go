package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clawdeck/clawdeck/config"
	"github.com/clawdeck/clawdeck/internal"
	"github.com/clawdeck/clawdeck/logging"
)

var (
	monitorCommand string
	monitorArgs    []string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Embed an external monitoring CLI",
	Long: `Run an external monitoring command inside a scrollable terminal surface.

The configured command (claude-code-monitor by default) is spawned and its
output streamed into the widget. If the command is not installed the
fallback commands are tried in order. The process can be restarted or
stopped without leaving the widget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfiguration()
		if err != nil {
			return err
		}

		if monitorCommand != "" {
			cfg.Monitor.Command = monitorCommand
		}
		if cmd.Flags().Changed("args") {
			cfg.Monitor.Args = monitorArgs
		}

		logging.InitLogger(cfg.App.LogLevel, cfg.App.LogFile)

		app, err := internal.NewMonitorApplication(cfg)
		if err != nil {
			return fmt.Errorf("failed to create monitor: %w", err)
		}
		return app.Run()
	},
}

func init() {
	def := config.DefaultConfig()

	monitorCmd.Flags().StringVar(&monitorCommand, "command", "", fmt.Sprintf("command to embed (default %q)", def.Monitor.Command))
	monitorCmd.Flags().StringSliceVar(&monitorArgs, "args", nil, "arguments passed to the embedded command")

	rootCmd.AddCommand(monitorCmd)
}
