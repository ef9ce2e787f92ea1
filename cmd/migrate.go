package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"video-archive-bot/config"
	"video-archive-bot/server"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or upgrade the videos table and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := server.SetupLogger(config)
			defer config.DB.Close()

			if _, err := server.OpenRepository(ctx, config); err != nil {
				return err
			}
			zerolog.Ctx(ctx).Info().Msg("migration finished")
			return nil
		},
	}
}
