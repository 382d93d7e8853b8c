package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by ttconvert.

If no configuration file is active, the command returns an error. Afterwards the
built-in defaults apply again.`,
	Example: `
  # Delete active config
  ttconvert config delete

  # Delete config at a custom path
  ttconvert --configFile ./custom-ttconvert.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		if err := os.Remove(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("configuration file %s no longer exists", configPath)
			}
			return fmt.Errorf("error deleting configuration file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file successfully deleted: %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
