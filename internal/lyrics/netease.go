package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lyrtrack/internal/track"
)

const (
	neteaseSearchURL = "https://music.163.com/api/search/get/web"
	neteaseLyricURL  = "https://music.163.com/api/song/lyric"
	neteaseUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	neteaseReferer   = "https://music.163.com"
)

// Netease looks up lyrics on the Netease Cloud Music public API. It is the
// only provider here that carries a separate translation stream, returned as
// a second LRC document alongside the original.
type Netease struct {
	client    *http.Client
	searchURL string
	lyricURL  string
}

func NewNetease() *Netease {
	return &Netease{
		client:    newHTTPClient(),
		searchURL: neteaseSearchURL,
		lyricURL:  neteaseLyricURL,
	}
}

func (n *Netease) Name() string { return "netease" }

type neteaseSong struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

type neteaseSearchResponse struct {
	Result struct {
		Songs []neteaseSong `json:"songs"`
	} `json:"result"`
}

type neteaseLyricResponse struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
	Tlyric struct {
		Lyric string `json:"lyric"`
	} `json:"tlyric"`
}

func (n *Netease) Lookup(ctx context.Context, t track.Info) (Result, error) {
	songID, err := n.search(ctx, t)
	if err != nil {
		return Result{}, err
	}

	res, err := n.lyric(ctx, songID)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(res.Lyric) == "" {
		return Result{}, ErrNotFound
	}
	return res, nil
}

func (n *Netease) search(ctx context.Context, t track.Info) (int64, error) {
	form := url.Values{}
	form.Set("s", t.Title+" "+t.Artist)
	form.Set("type", "1")
	form.Set("offset", "0")
	form.Set("limit", "5")

	body, err := n.post(ctx, n.searchURL, form)
	if err != nil {
		return 0, err
	}

	var payload neteaseSearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode netease search response: %w", err)
	}

	songs := payload.Result.Songs
	if len(songs) == 0 {
		return 0, ErrNotFound
	}

	// prefer a result whose artist actually matches; the top hit is often a
	// cover when the query is loose
	for _, song := range songs {
		for _, artist := range song.Artists {
			if containsIgnoreCase(artist.Name, t.Artist) || containsIgnoreCase(t.Artist, artist.Name) {
				return song.ID, nil
			}
		}
	}
	return songs[0].ID, nil
}

func (n *Netease) lyric(ctx context.Context, songID int64) (Result, error) {
	query := url.Values{}
	query.Set("os", "pc")
	query.Set("id", strconv.FormatInt(songID, 10))
	query.Set("lv", "-1")
	query.Set("kv", "-1")
	query.Set("tv", "-1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.lyricURL+"?"+query.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build netease lyric request: %w", err)
	}
	n.setHeaders(req)

	body, err := n.do(req)
	if err != nil {
		return Result{}, err
	}

	var payload neteaseLyricResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("decode netease lyric response: %w", err)
	}
	return Result{Lyric: payload.Lrc.Lyric, Translation: payload.Tlyric.Lyric}, nil
}

func (n *Netease) post(ctx context.Context, target string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build netease request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	n.setHeaders(req)
	return n.do(req)
}

func (n *Netease) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", neteaseUserAgent)
	req.Header.Set("Referer", neteaseReferer)
}

func (n *Netease) do(req *http.Request) ([]byte, error) {
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("netease returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return io.ReadAll(resp.Body)
}

func containsIgnoreCase(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
