package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lyrtrack/internal/colors"
	"lyrtrack/internal/config"
	"lyrtrack/internal/player"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "mpris player utilities",
	Long:  `discover and test mpris-compatible music players on your system.`,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list available mpris players",
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		services, err := player.List(bus)
		if err != nil {
			return err
		}

		if len(services) == 0 {
			fmt.Println("no mpris players found")
			fmt.Println("\ncheck if your music player is running and supports mpris")
			return nil
		}

		fmt.Printf("found %d mpris player(s):\n\n", len(services))
		for _, service := range services {
			if identity := player.IdentityOf(bus, service); identity != "" {
				fmt.Printf("  %s (%s)\n", service, identity)
			} else {
				fmt.Printf("  %s\n", service)
			}
		}

		fmt.Println("\nuse --mpris-service to pick one")
		return nil
	},
}

var playerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "show what the configured player is doing",
	RunE: func(cmd *cobra.Command, args []string) error {
		// one-shot cli invocation, keep log noise off the terminal
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)

		cfg := config.Load(configPath)
		if mprisService != "" {
			cfg.MprisService = mprisService
		}

		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		fmt.Printf("querying: %s\n\n", cfg.MprisService)

		poller, err := player.NewPoller(bus, cfg.MprisService)
		if err != nil {
			return err
		}

		sample := poller.Sample(cmd.Context())
		if !sample.Available {
			fmt.Println("player is not running or has no track")
			return nil
		}

		if identity := player.IdentityOf(bus, cfg.MprisService); identity != "" {
			fmt.Printf("player: %s\n", identity)
		}
		fmt.Println("current track:")
		fmt.Printf("  title:    %s\n", sample.Track.Title)
		fmt.Printf("  artist:   %s\n", sample.Track.Artist)
		if sample.Track.Album != "" {
			fmt.Printf("  album:    %s\n", sample.Track.Album)
		}
		if sample.Track.DurationMs > 0 {
			fmt.Printf("  position: %s / %s\n",
				colors.FormatTime(sample.PositionMs),
				colors.FormatTime(sample.Track.DurationMs))
		} else {
			fmt.Printf("  position: %s\n", colors.FormatTime(sample.PositionMs))
		}
		if sample.Playing {
			fmt.Println("  state:    playing")
		} else {
			fmt.Println("  state:    paused")
		}

		return nil
	},
}

func init() {
	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerStatusCmd)
	rootCmd.AddCommand(playerCmd)
}
