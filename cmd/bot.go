package cmd

import (
	"github.com/spf13/cobra"
	"video-archive-bot/config"
	"video-archive-bot/server"
)

func bot(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "start the telegram bot and health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.RunBot(config)
		},
	}
}
