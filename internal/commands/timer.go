package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/app"
	"github.com/nhle/whatsboard/internal/timer"
)

func addTimer(topLevel *cobra.Command, o *RootOptions) {
	cmd := &cobra.Command{
		Use:   "timer [status|start|stop|reset]",
		Short: "Show or change the focus timer.",
		Long: "Show or change the focus timer. The timer only advances while the\n" +
			"dashboard is open; a timer started here begins counting there.",
		Example: `
whatsboard timer
whatsboard timer start
whatsboard timer reset
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"status", "start", "stop", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "status"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			logger, logFile, err := o.openLogger(cfg)
			if err != nil {
				return err
			}
			defer logFile.Close()

			tm := app.OpenTimer(cfg, logger)
			switch action {
			case "status":
			case "start":
				tm.Start()
			case "stop":
				tm.Stop()
			case "reset":
				tm.Reset()
			default:
				return fmt.Errorf("unknown timer action %q", action)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), timerLine(tm.State()))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func timerLine(st timer.State) string {
	state := "stopped"
	if st.IsRunning {
		state = "running"
	}
	return fmt.Sprintf("%s %s", bold(st.Display()), dimmed(state))
}
