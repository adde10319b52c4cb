// Package artwork fetches cover art and derives a small terminal color
// palette from it.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/nfnt/resize"

	"lyrtrack/internal/colors"
)

// Palette holds accent colors derived from cover art. Values are hex strings
// consumable by lipgloss.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Dim       string
}

func Default() Palette {
	return Palette{
		Primary:   "#8BA4E8",
		Secondary: "#E8A4C8",
		Accent:    "#B8A8E8",
		Dim:       "#6272A4",
	}
}

const (
	fetchTimeout = 5 * time.Second

	// kmeans input cap; covers arrive at 640x640 or larger and full-size
	// clustering is wasted work for a 4-color palette
	maxSampleDim = 160
)

// Fetch loads cover art from a file:// or http(s) URL.
func Fetch(ctx context.Context, artworkURL string) (image.Image, error) {
	if artworkURL == "" {
		return nil, errors.New("empty artwork url")
	}

	if strings.HasPrefix(artworkURL, "file://") {
		f, err := os.Open(strings.TrimPrefix(artworkURL, "file://"))
		if err != nil {
			return nil, fmt.Errorf("open artwork file: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode artwork: %w", err)
		}
		return img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build artwork request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}
	return img, nil
}

// ExtractPalette clusters the dominant colors of img and picks vivid,
// readable ones. Falls back to Default when the image yields nothing usable.
func ExtractPalette(img image.Image) Palette {
	if img == nil {
		return Default()
	}

	img = downscale(img)

	clusters, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(clusters) < 3 {
		return Default()
	}

	scored := make([]scoredColor, len(clusters))
	for i, c := range clusters {
		scored[i] = scoreColor(c)
	}

	primary, ok := pickBest(scored, 0.3, 0.2, nil)
	if !ok {
		return Default()
	}
	secondary, ok := pickBest(scored, 0.3, 0.15, []scoredColor{primary})
	if !ok {
		return Default()
	}
	accent, ok := pickBest(scored, 0.25, 0.1, []scoredColor{primary, secondary})
	if !ok {
		accent = secondary
	}

	return Palette{
		Primary:   boost(primary),
		Secondary: boost(secondary),
		Accent:    boost(accent),
		Dim:       Default().Dim,
	}
}

func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxSampleDim && bounds.Dy() <= maxSampleDim {
		return img
	}
	return resize.Thumbnail(maxSampleDim, maxSampleDim, img, resize.Bilinear)
}

type scoredColor struct {
	r, g, b    uint32
	sat        float64
	brightness float64
	score      float64
}

func scoreColor(c prominentcolor.ColorItem) scoredColor {
	r := float64(c.Color.R) / 255.0
	g := float64(c.Color.G) / 255.0
	b := float64(c.Color.B) / 255.0

	hi := math.Max(math.Max(r, g), b)
	lo := math.Min(math.Min(r, g), b)

	var sat float64
	if hi > 0 {
		sat = (hi - lo) / hi
	}

	return scoredColor{
		r: c.Color.R, g: c.Color.G, b: c.Color.B,
		sat:        sat,
		brightness: hi,
		// mid-brightness saturated colors read best against a dark terminal
		score: sat * (1.0 - math.Abs(hi-0.6)),
	}
}

func pickBest(candidates []scoredColor, minBrightness, minSat float64, taken []scoredColor) (scoredColor, bool) {
	best := scoredColor{score: -1}
	found := false
	for _, c := range candidates {
		if c.brightness < minBrightness || c.sat < minSat || isTaken(c, taken) {
			continue
		}
		if c.score > best.score {
			best = c
			found = true
		}
	}
	return best, found
}

func isTaken(c scoredColor, taken []scoredColor) bool {
	for _, t := range taken {
		if c.r == t.r && c.g == t.g && c.b == t.b {
			return true
		}
	}
	return false
}

// boost lifts dark picks toward readability and desaturates near-white ones.
func boost(c scoredColor) string {
	r, g, b := float64(c.r), float64(c.g), float64(c.b)

	if c.brightness > 0 && c.brightness < 0.4 {
		factor := math.Min(0.4/c.brightness, 2.5)
		r = math.Min(255, r*factor)
		g = math.Min(255, g*factor)
		b = math.Min(255, b*factor)
	}

	if c.brightness > 0.85 {
		avg := (r + g + b) / 3
		r = avg + (r-avg)*0.7
		g = avg + (g-avg)*0.7
		b = avg + (b-avg)*0.7
	}

	return colors.RGBToHex(int(r), int(g), int(b))
}
