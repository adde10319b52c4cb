package lyrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lyrtrack/internal/track"
)

func testTrack() track.Info {
	return track.Info{
		Identity: track.Identity{Title: "Karma Police", Artist: "Radiohead"},
	}
}

func newTestNetease(search, lyric http.HandlerFunc) (*Netease, func()) {
	searchSrv := httptest.NewServer(search)
	lyricSrv := httptest.NewServer(lyric)
	n := &Netease{
		client:    searchSrv.Client(),
		searchURL: searchSrv.URL,
		lyricURL:  lyricSrv.URL,
	}
	return n, func() {
		searchSrv.Close()
		lyricSrv.Close()
	}
}

func TestNeteaseLookup(t *testing.T) {
	search := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("search method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("s"); got != "Karma Police Radiohead" {
			t.Errorf("search query = %q", got)
		}
		w.Write([]byte(`{"result":{"songs":[
			{"id":111,"name":"Karma Police (cover)","artists":[{"name":"Cover Band"}]},
			{"id":222,"name":"Karma Police","artists":[{"name":"Radiohead"}]}
		]}}`))
	}
	lyric := func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "222" {
			t.Errorf("lyric id = %q, want matched song 222", got)
		}
		w.Write([]byte(`{"lrc":{"lyric":"[00:01.00]hello"},"tlyric":{"lyric":"[00:01.00]你好"}}`))
	}

	n, done := newTestNetease(search, lyric)
	defer done()

	res, err := n.Lookup(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Lyric != "[00:01.00]hello" {
		t.Errorf("lyric = %q", res.Lyric)
	}
	if res.Translation != "[00:01.00]你好" {
		t.Errorf("translation = %q", res.Translation)
	}
}

func TestNeteaseNoSearchResults(t *testing.T) {
	search := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"songs":[]}}`))
	}
	lyric := func(w http.ResponseWriter, r *http.Request) {
		t.Error("lyric endpoint should not be hit")
	}

	n, done := newTestNetease(search, lyric)
	defer done()

	_, err := n.Lookup(context.Background(), testTrack())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNeteaseEmptyLyricBody(t *testing.T) {
	search := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"songs":[{"id":5,"name":"x","artists":[{"name":"Radiohead"}]}]}}`))
	}
	lyric := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lrc":{"lyric":"  "},"tlyric":{"lyric":""}}`))
	}

	n, done := newTestNetease(search, lyric)
	defer done()

	_, err := n.Lookup(context.Background(), testTrack())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for blank lyric body", err)
	}
}

func TestNeteaseServerError(t *testing.T) {
	search := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}
	lyric := func(w http.ResponseWriter, r *http.Request) {}

	n, done := newTestNetease(search, lyric)
	defer done()

	_, err := n.Lookup(context.Background(), testTrack())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want transport error distinct from ErrNotFound", err)
	}
}

func TestResolverFallsThroughSources(t *testing.T) {
	first := sourceFunc{name: "first", result: Result{}, err: ErrNotFound}
	second := sourceFunc{name: "second", result: Result{Lyric: "[00:01.00]found"}}

	r := NewResolver(first, second)
	res, err := r.Lookup(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Lyric != "[00:01.00]found" {
		t.Errorf("lyric = %q", res.Lyric)
	}
}

func TestResolverPrefersFailureOverNotFound(t *testing.T) {
	broken := sourceFunc{name: "broken", err: errors.New("connection refused")}
	miss := sourceFunc{name: "miss", err: ErrNotFound}

	_, err := NewResolver(broken, miss).Lookup(context.Background(), testTrack())
	if errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want the network failure, not a not-found", err)
	}
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestResolverAllMiss(t *testing.T) {
	r := NewResolver(sourceFunc{name: "only", err: ErrNotFound})
	_, err := r.Lookup(context.Background(), testTrack())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResolverRejectsInvalidTrack(t *testing.T) {
	r := NewResolver(sourceFunc{name: "only", result: Result{Lyric: "x"}})
	_, err := r.Lookup(context.Background(), track.Info{})
	if err == nil {
		t.Error("expected error for track without title/artist")
	}
}

type sourceFunc struct {
	name   string
	result Result
	err    error
}

func (s sourceFunc) Name() string { return s.name }

func (s sourceFunc) Lookup(context.Context, track.Info) (Result, error) {
	return s.result, s.err
}
