package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ttconvert configuration file values.",
	Long: `Create, edit, display, and delete the ttconvert configuration file.

The configuration stores the Dynamics identifiers written to every exported row
and local server settings:
- dynamics.project_data_area_id / project_id / work_activity / lunch_activity
- server.port / max_upload_mb / max_sessions
- log.level`,
	Example: `
  # Create default config in $HOME/.ttconvert.yaml
  ttconvert config create

  # Show active config and source file
  ttconvert config show

  # Open active config in editor (creates example if missing)
  ttconvert config edit

  # Delete active config file
  ttconvert config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
