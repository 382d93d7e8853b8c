package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ttconvert/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  ttconvert config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("dynamics.project_data_area_id: %s\n", cfg.Dynamics.ProjectDataAreaID)
		fmt.Printf("dynamics.project_id: %s\n", cfg.Dynamics.ProjectID)
		fmt.Printf("dynamics.work_activity: %s\n", cfg.Dynamics.WorkActivity)
		fmt.Printf("dynamics.lunch_activity: %s\n", cfg.Dynamics.LunchActivity)
		fmt.Printf("server.port: %d\n", cfg.Server.Port)
		fmt.Printf("server.max_upload_mb: %d\n", cfg.Server.MaxUploadMB)
		fmt.Printf("server.max_sessions: %d\n", cfg.Server.MaxSessions)
		fmt.Printf("log.level: %s\n", cfg.Log.Level)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
