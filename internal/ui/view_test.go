package ui

import (
	"strings"
	"testing"
	"time"

	"lyrtrack/internal/lrc"
	"lyrtrack/internal/player"
)

func TestViewIdleWhenNoPlayer(t *testing.T) {
	m := testModel()
	m.width = 80
	m.height = 24

	out := m.View()
	if !strings.Contains(out, "awaiting music") {
		t.Error("idle view should show waiting message")
	}
}

func TestViewIdleWhenPlayerVanishes(t *testing.T) {
	m := testModel()
	m.width = 80
	m.height = 24
	m.applySample(sampleFor("Song A", "Artist", 60_000))
	m.timeline = lrc.Timeline{
		{TimeMs: 55_000, Text: "late verse"},
		{TimeMs: 65_000, Text: "later verse"},
	}
	m.state = stateSynced
	m.match = lrc.Locate(m.timeline, 60_000)

	m.applySample(sampleFor("Song A", "Artist", 61_000)) // still fine

	next, _ := m.Update(renderTickMsg(time.Now()))
	m = next.(Model)
	if !strings.Contains(m.View(), "late verse") {
		t.Fatal("synced view should render while the player is up")
	}

	m.applySample(player.Sample{})
	next, _ = m.Update(renderTickMsg(time.Now()))
	m = next.(Model)

	out := m.View()
	if !strings.Contains(out, "awaiting music") {
		t.Error("unavailable player should render the idle placeholder")
	}
	for _, leaked := range []string{"late verse", "Song A", "0:00"} {
		if strings.Contains(out, leaked) {
			t.Errorf("idle view leaked %q from the synced frame", leaked)
		}
	}
}

func TestViewQuittingIsEmpty(t *testing.T) {
	m := testModel()
	m.quitting = true
	if m.View() != "" {
		t.Error("quitting view should render nothing")
	}
}

func TestViewSyncedShowsCurrentAndNext(t *testing.T) {
	m := testModel()
	m.width = 80
	m.height = 24
	m.applySample(sampleFor("Song A", "Artist", 6000))
	m.timeline = lrc.Timeline{
		{TimeMs: 5000, Text: "current words", Translation: "译文"},
		{TimeMs: 10000, Text: "next words"},
	}
	m.state = stateSynced
	m.match = lrc.Locate(m.timeline, 6000)

	out := m.View()
	for _, want := range []string{"Song A", "Artist", "current words", "译文", "next words", "NOW", "NEXT"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewHidesNextWhenDisabled(t *testing.T) {
	m := testModel()
	m.cfg.ShowNext = false
	m.width = 80
	m.height = 24
	m.applySample(sampleFor("Song A", "Artist", 6000))
	m.timeline = lrc.Timeline{
		{TimeMs: 5000, Text: "current words"},
		{TimeMs: 10000, Text: "next words"},
	}
	m.state = stateSynced
	m.match = lrc.Locate(m.timeline, 6000)

	if out := m.View(); strings.Contains(out, "next words") {
		t.Error("next line should be hidden when show_next is off")
	}
}

func TestViewHeaderToggle(t *testing.T) {
	m := testModel()
	m.width = 80
	m.height = 24
	m.hideHeader = true
	m.applySample(sampleFor("Song A", "Artist", 0))
	m.state = stateLoading

	if out := m.View(); strings.Contains(out, "Song A") {
		t.Error("hidden header should not render track info")
	}
}

func TestProgressBarUnknownDuration(t *testing.T) {
	m := testModel()
	m.width = 80
	sample := sampleFor("Song A", "Artist", 30_000)
	sample.Track.DurationMs = 0
	sample.Playing = false
	m.applySample(sample)

	bar := m.renderProgressBar()
	if !strings.Contains(bar, "--:--") {
		t.Errorf("bar = %q, want unknown total time", bar)
	}
	if strings.Contains(bar, m.cfg.ProgressFilled) {
		t.Error("bar should stay empty with unknown duration")
	}
}

func TestProgressBarClampsPastEnd(t *testing.T) {
	m := testModel()
	sample := sampleFor("Song A", "Artist", 999_000)
	sample.Playing = false
	m.applySample(sample)

	bar := m.renderProgressBar()
	if strings.Contains(bar, m.cfg.ProgressEmpty) {
		t.Error("bar past track end should be fully filled")
	}
}

func TestViewPlaceholderStates(t *testing.T) {
	m := testModel()
	m.width = 80
	m.height = 24
	m.applySample(sampleFor("Song A", "Artist", 0))

	m.state = stateLoading
	if !strings.Contains(m.View(), "fetching lyrics") {
		t.Error("loading view should show spinner text")
	}

	m.state = stateNoLyrics
	if !strings.Contains(m.View(), "no lyrics") {
		t.Error("no-lyrics view should say so")
	}

	m.state = stateFailed
	m.err = errTest
	if !strings.Contains(m.View(), "lyrics lookup failed") {
		t.Error("failed view should show the error")
	}
}

func TestLineProgressMeter(t *testing.T) {
	m := testModel()
	m.match = lrc.Match{Progress: 0.5}

	meter := m.renderLineProgress()
	if !strings.Contains(meter, "─") || !strings.Contains(meter, "┄") {
		t.Errorf("meter = %q, want half filled", meter)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 6); got != "hello…" {
		t.Errorf("truncate long = %q", got)
	}
}
