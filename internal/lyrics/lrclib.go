package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"lyrtrack/internal/track"
)

// Lrclib fetches synced lyrics from an lrclib.net-compatible endpoint.
// Lrclib serves no translations, so Result.Translation is always empty.
type Lrclib struct {
	client  *http.Client
	baseURL string
}

func NewLrclib(baseURL string) *Lrclib {
	return &Lrclib{client: newHTTPClient(), baseURL: baseURL}
}

func (l *Lrclib) Name() string { return "lrclib" }

type lrclibResponse struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	Instrumental bool   `json:"instrumental"`
	SyncedLyrics string `json:"syncedLyrics"`
}

func (l *Lrclib) Lookup(ctx context.Context, t track.Info) (Result, error) {
	endpoint, err := url.Parse(l.baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("invalid lrclib url %q: %w", l.baseURL, err)
	}

	query := endpoint.Query()
	query.Set("artist_name", t.Artist)
	query.Set("track_name", t.Title)
	if t.Album != "" {
		query.Set("album_name", t.Album)
	}
	if t.DurationMs > 0 {
		query.Set("duration", strconv.FormatInt(t.DurationMs/1000, 10))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build lrclib request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrtrack/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("lrclib returned status %d: %s", resp.StatusCode, string(snippet))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read lrclib response: %w", err)
	}

	var payload lrclibResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("decode lrclib response: %w", err)
	}
	if payload.SyncedLyrics == "" {
		return Result{}, ErrNotFound
	}
	return Result{Lyric: payload.SyncedLyrics}, nil
}
