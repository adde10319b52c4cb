package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lyrtrack/internal/colors"
	"lyrtrack/internal/config"
	"lyrtrack/internal/lrc"
	"lyrtrack/internal/player"
	"lyrtrack/internal/track"
)

var (
	lyricsTitle  string
	lyricsArtist string
	lyricsAlbum  string
	lyricsRaw    bool
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "fetch and inspect lyrics without starting the viewer",
	Long: `fetches lyrics for the currently playing track, or for an explicit
title/artist pair, and prints the parsed timeline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)

		cfg := config.Load(configPath)
		if mprisService != "" {
			cfg.MprisService = mprisService
		}
		if lrclibURL != "" {
			cfg.LrclibURL = lrclibURL
		}

		trk, err := resolveTarget(cmd, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("looking up: %s - %s\n\n", trk.Artist, trk.Title)

		res, err := buildResolver(cfg).Lookup(cmd.Context(), trk)
		if err != nil {
			return err
		}

		if lyricsRaw {
			fmt.Println(res.Lyric)
			return nil
		}

		timeline, err := lrc.Parse(res.Lyric)
		if err != nil {
			return err
		}
		if res.Translation != "" {
			if trans, err := lrc.Parse(res.Translation); err == nil {
				timeline = lrc.Merge(timeline, trans)
			}
		}

		for _, line := range timeline {
			fmt.Printf("%7s  %s\n", colors.FormatTime(line.TimeMs), line.Text)
			if line.Translation != "" {
				fmt.Printf("%7s  %s\n", "", line.Translation)
			}
		}
		return nil
	},
}

// resolveTarget builds the lookup target from flags, falling back to the
// currently playing track when no title was given.
func resolveTarget(cmd *cobra.Command, cfg *config.Config) (track.Info, error) {
	if lyricsTitle != "" {
		return track.Info{
			Identity: track.Identity{Title: lyricsTitle, Artist: lyricsArtist},
			Album:    lyricsAlbum,
		}, nil
	}

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return track.Info{}, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	poller, err := player.NewPoller(bus, cfg.MprisService)
	if err != nil {
		return track.Info{}, err
	}

	sample := poller.Sample(cmd.Context())
	if !sample.Available {
		return track.Info{}, fmt.Errorf("nothing is playing; pass --title and --artist instead")
	}
	return sample.Track, nil
}

func init() {
	lyricsCmd.Flags().StringVar(&lyricsTitle, "title", "", "track title (defaults to the playing track)")
	lyricsCmd.Flags().StringVar(&lyricsArtist, "artist", "", "track artist")
	lyricsCmd.Flags().StringVar(&lyricsAlbum, "album", "", "track album")
	lyricsCmd.Flags().BoolVar(&lyricsRaw, "raw", false, "print the raw lrc text instead of the parsed timeline")
	rootCmd.AddCommand(lyricsCmd)
}
