package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"lyrtrack/internal/artwork"
	"lyrtrack/internal/lrc"
	"lyrtrack/internal/lyrics"
	"lyrtrack/internal/player"
	"lyrtrack/internal/track"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case pollTickMsg:
		return m.handlePollTick()

	case renderTickMsg:
		m.frame++
		m.match = lrc.Locate(m.timeline, m.positionMs())
		return m, renderTick(m.cfg.RenderInterval)

	case lyricsMsg:
		return m.handleLyrics(msg)

	case artworkMsg:
		if msg.id.Same(m.current.Identity) {
			m.palette = msg.palette
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k", "+", "=":
		m.syncOffsetMs += 100

	case "down", "j", "-":
		m.syncOffsetMs -= 100

	case "right", "l":
		m.syncOffsetMs += 500

	case "left", "h":
		m.syncOffsetMs -= 500

	case "0":
		m.syncOffsetMs = 0

	case "tab", "i":
		m.hideHeader = !m.hideHeader
	}

	m.match = lrc.Locate(m.timeline, m.positionMs())
	return m, nil
}

func (m Model) handlePollTick() (tea.Model, tea.Cmd) {
	if m.poller == nil {
		return m, pollTick(m.cfg.PollInterval)
	}

	sample := m.poller.Sample(context.Background())
	cmd := m.applySample(sample)
	return m, tea.Batch(pollTick(m.cfg.PollInterval), cmd)
}

// applySample folds a poll result into the model. A track change clears the
// timeline and kicks off lyric and artwork fetches. An unavailable player
// switches the view to the idle placeholder but keeps the last good sample
// and the current track, so a transient dbus hiccup resumes where it left
// off instead of losing the lyrics.
func (m *Model) applySample(sample player.Sample) tea.Cmd {
	m.available = sample.Available
	if !sample.Available {
		return nil
	}

	m.sample = sample
	m.sampleAt = time.Now()

	if sample.Track.Same(m.current.Identity) {
		m.current = sample.Track
		m.match = lrc.Locate(m.timeline, m.positionMs())
		return nil
	}

	log.Info().Str("title", sample.Track.Title).Str("artist", sample.Track.Artist).Msg("track changed")

	m.current = sample.Track
	m.timeline = nil
	m.match = lrc.Match{}
	m.palette = artwork.Default()
	m.err = nil
	m.state = stateLoading

	cmds := []tea.Cmd{fetchLyricsCmd(m.resolver, sample.Track)}
	if sample.Track.ArtworkURL != "" {
		cmds = append(cmds, fetchArtworkCmd(sample.Track))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleLyrics(msg lyricsMsg) (tea.Model, tea.Cmd) {
	if !msg.id.Same(m.current.Identity) {
		return m, nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, lyrics.ErrNotFound) || errors.Is(msg.err, lrc.ErrNoLyrics) {
			m.state = stateNoLyrics
		} else {
			m.state = stateFailed
		}
		m.err = msg.err
		m.timeline = nil
		m.match = lrc.Match{}
		return m, nil
	}

	m.timeline = msg.timeline
	m.match = lrc.Locate(m.timeline, m.positionMs())
	m.err = nil
	m.state = stateSynced
	return m, nil
}

func fetchLyricsCmd(resolver *lyrics.Resolver, trk track.Info) tea.Cmd {
	return func() tea.Msg {
		if resolver == nil {
			return lyricsMsg{id: trk.Identity, err: lyrics.ErrNotFound}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := resolver.Lookup(ctx, trk)
		if err != nil {
			return lyricsMsg{id: trk.Identity, err: err}
		}

		timeline, err := lrc.Parse(res.Lyric)
		if err != nil {
			return lyricsMsg{id: trk.Identity, err: err}
		}

		if res.Translation != "" {
			if trans, err := lrc.Parse(res.Translation); err == nil {
				timeline = lrc.Merge(timeline, trans)
			}
		}

		return lyricsMsg{id: trk.Identity, timeline: timeline}
	}
}

func fetchArtworkCmd(trk track.Info) tea.Cmd {
	return func() tea.Msg {
		img, err := artwork.Fetch(context.Background(), trk.ArtworkURL)
		if err != nil {
			log.Debug().Err(err).Msg("artwork fetch failed")
			return artworkMsg{id: trk.Identity, palette: artwork.Default()}
		}
		return artworkMsg{id: trk.Identity, palette: artwork.ExtractPalette(img)}
	}
}
