package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ttconvert/config"
)

var configCreatePrint bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.ttconvert.yaml
  ttconvert config create

  # Print the template instead of writing it
  ttconvert config create --print > team.yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configCreatePrint {
			_, err := io.WriteString(cmd.OutOrStdout(), config.ExampleYAML())
			return err
		}
		return saveDefaultConfig(cmd.OutOrStdout())
	},
}

func saveDefaultConfig(out io.Writer) error {
	configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := writeConfigTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreatePrint, "print", false, "Print the example config to stdout instead of writing a file")
}
