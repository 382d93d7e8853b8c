package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active ttconvert config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the Dynamics identifiers and server settings are validated.`,
	Example: `
  # Edit active config
  ttconvert config edit

  # Edit with a specific editor
  EDITOR="code --wait" ttconvert config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := writeConfigTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "No config file found. Created example config at: %s\n", configPath)
		}

		editor := editorCommand(os.Getenv("VISUAL"), os.Getenv("EDITOR"), configPath)
		editor.Stdin = os.Stdin
		editor.Stdout = os.Stdout
		editor.Stderr = os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		cfg, err := validateConfigFile(configPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved and validated: %s (project %s)\n", configPath, cfg.Dynamics.ProjectID)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
