package cmd

import (
	"github.com/spf13/cobra"
	"video-archive-bot/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "video-archive-bot",
		Short: "telegram bot archiving operator videos by date code",
	}
	rootCmd.AddCommand(bot(config))
	rootCmd.AddCommand(migrate(config))
	return rootCmd
}
