package main

import (
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/sos-backend/internal"
	"github.com/rocketscienceinc/sos-backend/internal/config"
)

var (
	configPath string
	savePath   string
	archive    bool

	conf *config.Config

	rootCmd = &cobra.Command{
		Use:           "sos",
		Short:         "Play, save and replay games of SOS",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			conf = loaded

			return nil
		},
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play a game between the configured seats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.RunPlay(cmd.Context(), initLogger(conf), conf, app.PlayOptions{
				SavePath: savePath,
				Archive:  archive,
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
			})
		},
	}

	replayCmd = &cobra.Command{
		Use:   "replay <path>",
		Short: "Replay a saved game file and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunReplay(initLogger(conf), args[0], cmd.OutOrStdout())
		},
	}

	showCmd = &cobra.Command{
		Use:   "show <id>",
		Short: "Replay a game from the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunShow(cmd.Context(), initLogger(conf), conf, args[0], cmd.OutOrStdout())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.yml", "path to the config file")

	playCmd.Flags().StringVar(&savePath, "save", "", "write the game log to this file when the game ends")
	playCmd.Flags().BoolVar(&archive, "archive", false, "store the game log in redis and print its id")

	rootCmd.AddCommand(playCmd, replayCmd, showCmd)
}
