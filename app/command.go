package app

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the CLI. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:          serviceName,
		Short:        "Private chat and notification service for the marketplace",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfgPath == "" {
				cfgPath = ResolveConfigPath()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			Run(cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or configs/config.$CONFIG_ENV.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		Run: func(cmd *cobra.Command, args []string) {
			Run(cfgPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the chat and notification tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Migrate(cfgPath)
		},
	})
	return root
}
