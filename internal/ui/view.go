package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lyrtrack/internal/colors"
	"lyrtrack/internal/config"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = m.cfg.Width
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	if !m.available {
		return m.renderIdle(width, height)
	}

	var lines []string
	if !m.hideHeader {
		lines = append(lines, m.renderHeader(width)...)
	}

	body := m.renderBody(width)
	padding := (height - len(lines) - len(body)) / 3
	for i := 0; i < padding; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, body...)

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderIdle(width, height int) string {
	dim := colors.Style(m.cfg.Color(config.RegionDim)).Italic(true)
	pulse := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Secondary))

	pulseChars := []string{"·", "•", "●", "•"}
	frame := pulseChars[(m.frame/4)%len(pulseChars)]

	lines := make([]string, height)
	center := height / 2
	if center >= 1 {
		lines[center-1] = centerText(dim.Render("awaiting music"), width)
		lines[center] = centerText(pulse.Render(frame), width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(width int) []string {
	border := colors.Style(m.cfg.Color(config.RegionHeader)).Render(strings.Repeat("─", width))
	info := colors.Style(m.cfg.Color(config.RegionSongInfo))

	song := "♪ " + m.current.Title
	if m.current.Artist != "" {
		song += " - " + m.current.Artist
	}
	song = truncate(song, width-4)

	return []string{
		border,
		centerText(info.Render(song), width),
		centerText(m.renderProgressBar(), width),
		border,
		"",
	}
}

// renderProgressBar shows position within the whole track. With no known
// duration the bar stays empty and the total reads "--:--".
func (m Model) renderProgressBar() string {
	timeStyle := colors.Style(m.cfg.Color(config.RegionTime))
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Primary))
	empty := colors.Style(m.cfg.Color(config.RegionDim))

	barLen := m.cfg.ProgressBarLength
	position := m.trackPositionMs()

	filled := 0
	total := "--:--"
	if m.current.DurationMs > 0 {
		ratio := float64(position) / float64(m.current.DurationMs)
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
		filled = int(ratio * float64(barLen))
		total = colors.FormatTime(m.current.DurationMs)
	}

	bar := fill.Render(strings.Repeat(m.cfg.ProgressFilled, filled)) +
		empty.Render(strings.Repeat(m.cfg.ProgressEmpty, barLen-filled))

	return timeStyle.Render(colors.FormatTime(position)) + " " + bar + " " + timeStyle.Render(total)
}

func (m Model) renderBody(width int) []string {
	switch m.state {
	case stateLoading:
		spin := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Secondary))
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		return []string{centerText(spin.Render(frame+" fetching lyrics"), width)}

	case stateNoLyrics:
		dim := colors.Style(m.cfg.Color(config.RegionDim)).Italic(true)
		return []string{centerText(dim.Render("no lyrics for this track"), width)}

	case stateFailed:
		dim := colors.Style(m.cfg.Color(config.RegionDim))
		msg := "lyrics lookup failed"
		if m.err != nil {
			msg = truncate("lyrics lookup failed: "+m.err.Error(), width-4)
		}
		return []string{centerText(dim.Render(msg), width)}

	case stateSynced:
		return m.renderLyrics(width)
	}

	return nil
}

func (m Model) renderLyrics(width int) []string {
	title := colors.Style(m.cfg.Color(config.RegionSectionTitle)).Bold(true)
	current := colors.Style(m.cfg.Color(config.RegionCurrentLyric)).Bold(true)
	currentTrans := colors.Style(m.cfg.Color(config.RegionCurrentTrans))
	next := colors.Style(m.cfg.Color(config.RegionNextLyric))
	nextTrans := colors.Style(m.cfg.Color(config.RegionNextTrans))
	dim := colors.Style(m.cfg.Color(config.RegionDim))

	var lines []string

	lines = append(lines, centerText(title.Render("NOW"), width))
	if m.match.Current != nil {
		text := m.match.Current.Text
		if text == "" {
			text = "♪"
		}
		lines = append(lines, centerText(current.Render(truncate(text, width-4)), width))
		if m.match.Current.Translation != "" {
			lines = append(lines, centerText(currentTrans.Render(truncate(m.match.Current.Translation, width-4)), width))
		}
	} else {
		lines = append(lines, centerText(dim.Italic(true).Render("…"), width))
	}

	lines = append(lines, "", centerText(m.renderLineProgress(), width), "")

	if m.cfg.ShowNext {
		lines = append(lines, centerText(title.Render("NEXT"), width))
		if m.match.Next != nil {
			text := m.match.Next.Text
			if text == "" {
				text = "♪"
			}
			lines = append(lines, centerText(next.Render(truncate(text, width-4)), width))
			if m.match.Next.Translation != "" {
				lines = append(lines, centerText(nextTrans.Render(truncate(m.match.Next.Translation, width-4)), width))
			}
		} else {
			lines = append(lines, centerText(dim.Italic(true).Render("· end ·"), width))
		}
	}

	return lines
}

// renderLineProgress is a short meter showing how far playback is between the
// current lyric line and the next one.
func (m Model) renderLineProgress() string {
	const meterLen = 20

	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Accent))
	empty := colors.Style(m.cfg.Color(config.RegionDim))

	filled := int(m.match.Progress * meterLen)
	if filled > meterLen {
		filled = meterLen
	}
	return fill.Render(strings.Repeat("─", filled)) + empty.Render(strings.Repeat("┄", meterLen-filled))
}

func centerText(styled string, width int) string {
	visible := lipgloss.Width(styled)
	if visible >= width {
		return styled
	}
	return strings.Repeat(" ", (width-visible)/2) + styled
}

func truncate(s string, limit int) string {
	if limit <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
