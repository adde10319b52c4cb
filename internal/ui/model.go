// Package ui drives the terminal interface: a slow poll loop that samples the
// player and a fast render loop that advances the lyric display between polls.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lyrtrack/internal/artwork"
	"lyrtrack/internal/config"
	"lyrtrack/internal/lrc"
	"lyrtrack/internal/lyrics"
	"lyrtrack/internal/player"
	"lyrtrack/internal/track"
)

type lyricsState int

const (
	stateIdle lyricsState = iota
	stateLoading
	stateSynced
	stateNoLyrics
	stateFailed
)

type pollTickMsg time.Time

type renderTickMsg time.Time

// lyricsMsg and artworkMsg carry the identity of the track they were fetched
// for; results that arrive after a track change are dropped.
type lyricsMsg struct {
	id       track.Identity
	timeline lrc.Timeline
	err      error
}

type artworkMsg struct {
	id      track.Identity
	palette artwork.Palette
}

type Model struct {
	poller   *player.Poller
	resolver *lyrics.Resolver
	cfg      *config.Config

	state     lyricsState
	available bool
	sample    player.Sample
	sampleAt  time.Time
	current  track.Info
	timeline lrc.Timeline
	match    lrc.Match
	palette  artwork.Palette
	err      error

	syncOffsetMs int64
	hideHeader   bool

	width    int
	height   int
	frame    int
	quitting bool
}

func NewModel(poller *player.Poller, resolver *lyrics.Resolver, cfg *config.Config, syncOffsetMs int64, hideHeader bool) Model {
	return Model{
		poller:       poller,
		resolver:     resolver,
		cfg:          cfg,
		palette:      artwork.Default(),
		syncOffsetMs: syncOffsetMs,
		hideHeader:   hideHeader,
		width:        cfg.Width,
		height:       24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(pollTick(m.cfg.PollInterval), renderTick(m.cfg.RenderInterval))
}

func pollTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func renderTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

// trackPositionMs is the playback position right now: the last sampled
// position, advanced by wall clock while playing. The position freezes while
// the player is unavailable; the next good sample is ground truth again.
func (m Model) trackPositionMs() int64 {
	pos := m.sample.PositionMs
	if m.available && m.sample.Playing && !m.sampleAt.IsZero() {
		pos += time.Since(m.sampleAt).Milliseconds()
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// positionMs shifts the track position by the user's sync offset; lyric
// matching uses this, the progress bar does not.
func (m Model) positionMs() int64 {
	pos := m.trackPositionMs() + m.syncOffsetMs
	if pos < 0 {
		pos = 0
	}
	return pos
}
