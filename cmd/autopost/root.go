package main

import (
	"github.com/reshetovitsme/autopost/internal/shared/config"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	configFile string
	envFile    string
}

func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Options{
		ConfigFile: o.configFile,
		EnvFile:    o.envFile,
		Flags:      cmd.Flags(),
	})
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "autopost",
		Short: "Generate, review and publish social media posts",
		Long: `autopost turns a product description into platform-specific posts or into
replies to related conversations, asks a reviewer to approve each draft and
publishes the accepted ones.

Example usage:
  autopost run --source launches/widget --source-kind file
  autopost run --mode reply --approval remote
  autopost keywords description.md -n 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/autopost/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to read (default: .env)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newRunCmd(opts),
		newKeywordsCmd(),
		newVersionCmd(),
	)
	return cmd
}
