package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/binalyze/n8n-workflow-tool/internal/config"
	"github.com/binalyze/n8n-workflow-tool/internal/logger"
)

var (
	cfgFile string
	cfg     config.AppConfig
)

// rootCmd represents the base CLI command
var rootCmd = &cobra.Command{
	Use:   "n8n-workflow-tool",
	Short: "Workflow download tool for n8n-nodes-binalyze-air",
	Long: `n8n-workflow-tool downloads test workflows from a running n8n
instance. It authenticates with the API token stored in .env.local.yml,
prompting for one and saving it when none is configured yet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		// CLI flags override config settings
		if cmd.Flags().Changed("debug") {
			cfg.Debug, _ = cmd.Flags().GetBool("debug")
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
		}

		return logger.InitLogger(logger.LoggerConfig{
			Debug:     cfg.Debug,
			LogFormat: cfg.LogFormat,
			LogFile:   cfg.LogFile,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger.Logger != nil {
			_ = logger.Sync()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand: show help and fail
		_ = cmd.Help()
		os.Exit(1)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.AppName+".yaml in the working directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "human", "log format: json or human")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)
}
