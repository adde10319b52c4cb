package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"lyrtrack/internal/config"
	"lyrtrack/internal/lyrics"
	"lyrtrack/internal/player"
	"lyrtrack/internal/terminal"
	"lyrtrack/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the interactive lyrics viewer",
	RunE:  runViewer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg := config.Load(configPath)

	if mprisService != "" {
		cfg.MprisService = mprisService
	}
	if lrclibURL != "" {
		cfg.LrclibURL = lrclibURL
	}
	if cmd.Flags().Changed("hide-header") {
		cfg.HideHeader = hideHeader
	}

	closeLog := setupLogging(cfg)
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		cancel()
		terminal.Reset()
		os.Exit(0)
	}()

	defer terminal.Reset()

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	poller, err := player.NewPoller(bus, cfg.MprisService)
	if err != nil {
		return fmt.Errorf("failed to create player poller: %w", err)
	}

	model := ui.NewModel(poller, buildResolver(cfg), cfg, syncOffsetMs, cfg.HideHeader)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}

	return nil
}

func buildResolver(cfg *config.Config) *lyrics.Resolver {
	var sources []lyrics.Source
	for _, name := range cfg.Sources {
		switch name {
		case "netease":
			sources = append(sources, lyrics.NewNetease())
		case "lrclib":
			sources = append(sources, lyrics.NewLrclib(cfg.LrclibURL))
		default:
			log.Warn().Str("source", name).Msg("unknown lyrics source in config")
		}
	}
	return lyrics.NewResolver(sources...)
}

// setupLogging sends logs to the configured file. The TUI owns stdout, so
// there is nowhere else for them to go; logging is disabled when the file
// cannot be opened.
func setupLogging(cfg *config.Config) func() {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFile == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return func() {}
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return func() {}
	}

	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }
}
