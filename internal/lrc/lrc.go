// Package lrc parses timestamp-tagged lyric text and locates the active line
// for a playback position.
package lrc

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoLyrics is returned by Parse when no line carries a usable timestamp.
// Callers treat it as "show no lyrics", never as a fatal condition.
var ErrNoLyrics = errors.New("no lyrics available")

// Line is a single timed lyric line. Text may be empty: an empty line marks a
// stretch where nothing is sung and is kept during parsing.
type Line struct {
	TimeMs      int64
	Text        string
	Translation string
}

// Timeline is an ordered sequence of lines, non-decreasing by TimeMs. It is
// built once per track and never mutated in place; a track change replaces it
// wholesale.
type Timeline []Line

var tagPattern = regexp.MustCompile(`\[(\d+):(\d{2})(?:\.(\d{1,3}))?\]`)

// Parse converts raw LRC text into a Timeline. A single raw line may carry
// several timestamp tags, each producing its own entry with the trailing
// text. Lines whose tags don't parse are skipped rather than aborting the
// whole parse. When two entries share a timestamp the first-seen text wins.
func Parse(raw string) (Timeline, error) {
	var result Timeline

	for _, line := range strings.Split(raw, "\n") {
		matches := tagPattern.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		// text is whatever follows the last tag; it may be empty
		last := matches[len(matches)-1]
		text := strings.TrimSpace(line[last[1]:])

		for _, m := range matches {
			result = append(result, Line{TimeMs: tagToMs(line, m), Text: text})
		}
	}

	if len(result) == 0 {
		return nil, ErrNoLyrics
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TimeMs < result[j].TimeMs
	})

	deduped := result[:1]
	for _, l := range result[1:] {
		if l.TimeMs == deduped[len(deduped)-1].TimeMs {
			continue
		}
		deduped = append(deduped, l)
	}

	return deduped, nil
}

// tagToMs converts one matched tag to milliseconds. The fractional part
// scales by its digit count: .5 is 500ms, .49 is 490ms, .490 is 490ms.
func tagToMs(line string, m []int) int64 {
	minutes, _ := strconv.ParseInt(line[m[2]:m[3]], 10, 64)
	seconds, _ := strconv.ParseInt(line[m[4]:m[5]], 10, 64)

	ms := minutes*60_000 + seconds*1_000

	if m[6] >= 0 {
		frac := line[m[6]:m[7]]
		v, _ := strconv.ParseInt(frac, 10, 64)
		switch len(frac) {
		case 1:
			v *= 100
		case 2:
			v *= 10
		}
		ms += v
	}

	return ms
}

// Merge zips a translation stream into the main stream by exact timestamp.
// Translations with no matching main line are dropped. The inputs are left
// untouched; a new timeline is returned.
func Merge(main, trans Timeline) Timeline {
	if len(main) == 0 {
		return main
	}

	merged := make(Timeline, len(main))
	copy(merged, main)

	if len(trans) == 0 {
		return merged
	}

	byTime := make(map[int64]string, len(trans))
	for _, l := range trans {
		if _, seen := byTime[l.TimeMs]; !seen {
			byTime[l.TimeMs] = l.Text
		}
	}

	for i := range merged {
		merged[i].Translation = byTime[merged[i].TimeMs]
	}

	return merged
}

// Match is the result of locating a playback position on a timeline. When
// both lines exist, Current.TimeMs <= position < Next.TimeMs holds.
type Match struct {
	Current *Line
	Next    *Line
	// Progress is how far the position has advanced from Current toward
	// Next, clamped to [0,1]. Zero when Next is absent.
	Progress float64
}

// Locate finds the lyric line active at positionMs: the last line whose
// timestamp is <= the position, or none when the position precedes the first
// line. It is a pure function of its inputs, so positions that jump backward
// or forward between calls need no special handling.
func Locate(t Timeline, positionMs int64) Match {
	if len(t) == 0 {
		return Match{}
	}

	idx := sort.Search(len(t), func(i int) bool {
		return t[i].TimeMs > positionMs
	}) - 1

	var m Match
	if idx >= 0 {
		m.Current = &t[idx]
	}
	if idx+1 < len(t) {
		m.Next = &t[idx+1]
	}

	if m.Current != nil && m.Next != nil {
		span := m.Next.TimeMs - m.Current.TimeMs
		if span > 0 {
			m.Progress = clamp(float64(positionMs-m.Current.TimeMs)/float64(span), 0, 1)
		}
	}

	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
