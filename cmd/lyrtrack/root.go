package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// global flags
	configPath   string
	mprisService string
	syncOffsetMs int64
	hideHeader   bool
	lrclibURL    string
)

var rootCmd = &cobra.Command{
	Use:   "lyrtrack",
	Short: "terminal-based synchronized lyrics viewer",
	Long: `lyrtrack follows whatever your mpris-compatible music player is playing and
shows the current lyric line in sync, with translations when the source has
them.

when run without a subcommand, it starts the interactive viewer.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.spotify)")
	rootCmd.PersistentFlags().Int64VarP(&syncOffsetMs, "sync-offset", "s", 0, "initial sync offset in milliseconds")
	rootCmd.PersistentFlags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide the header section")
	rootCmd.PersistentFlags().StringVar(&lrclibURL, "lrclib-url", "", "custom lrclib api url")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
