package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/credential"
	"github.com/nhle/whatsboard/internal/ui/setup"
)

func addConfigure(topLevel *cobra.Command, o *RootOptions) {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set up the data source, AI provider and credentials.",
		Long: "Set up the data source, AI provider and credentials. Settings are\n" +
			"written to the config file; tokens and keys go to the system keyring.",
		Example: `
whatsboard configure
whatsboard configure --config ./whatsboard.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}

			v := setup.FromConfig(cfg)
			if err := setup.NewForm(v, 80).Run(); err != nil {
				return err
			}
			if err := setup.Save(o.ConfigPath, cfg, v, credential.Set); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", o.ConfigPath)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
