// Package colors maps configured color values onto lipgloss colors and holds
// the small color math the artwork palette needs.
package colors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// named maps the color names accepted in the [colors] config table to their
// ANSI palette indexes.
var named = map[string]string{
	"black":          "0",
	"red":            "1",
	"green":          "2",
	"yellow":         "3",
	"blue":           "4",
	"magenta":        "5",
	"cyan":           "6",
	"white":          "7",
	"bright_black":   "8",
	"bright_red":     "9",
	"bright_green":   "10",
	"bright_yellow":  "11",
	"bright_blue":    "12",
	"bright_magenta": "13",
	"bright_cyan":    "14",
	"bright_white":   "15",
}

// Resolve turns a configured value into a lipgloss color. Names from the
// table above become ANSI indexes; anything else (hex, 256-color index) is
// passed through unchanged.
func Resolve(value string) lipgloss.Color {
	if code, ok := named[strings.ToLower(strings.TrimSpace(value))]; ok {
		return lipgloss.Color(code)
	}
	return lipgloss.Color(strings.TrimSpace(value))
}

// Style builds a foreground style for a configured color value. An empty
// value yields an unstyled renderer.
func Style(value string) lipgloss.Style {
	if strings.TrimSpace(value) == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(Resolve(value))
}

func HexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 255, 255, 255
	}

	parse := func(s string) int {
		v, err := strconv.ParseInt(s, 16, 64)
		if err != nil {
			return 255
		}
		return int(v)
	}

	return parse(hex[0:2]), parse(hex[2:4]), parse(hex[4:6])
}

func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02X%02X%02X", clampInt(r, 0, 255), clampInt(g, 0, 255), clampInt(b, 0, 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatTime renders a millisecond position as m:ss for the header clock.
func FormatTime(ms int64) string {
	if ms < 0 {
		return "0:00"
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
