// Package lyrics fetches timed lyrics for a track from remote providers.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"lyrtrack/internal/track"
)

// ErrNotFound reports that a provider has no lyrics for the track. The
// resolver moves on to the next source; any other error aborts the lookup.
var ErrNotFound = errors.New("lyrics not found")

const httpTimeout = 10 * time.Second

// Result is raw provider output: LRC text plus an optional translation
// stream in the same format.
type Result struct {
	Lyric       string
	Translation string
}

type Source interface {
	Name() string
	Lookup(ctx context.Context, t track.Info) (Result, error)
}

func newHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 2 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: httpTimeout}
}

// Resolver tries sources in order until one returns lyrics.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

func (r *Resolver) Lookup(ctx context.Context, t track.Info) (Result, error) {
	if !t.Valid() {
		return Result{}, errors.New("track title or artist is empty")
	}

	// a real failure from any source outranks a not-found from a later one,
	// so the caller can tell "no lyrics exist" from "lookup broke"
	var failure error
	for _, src := range r.sources {
		res, err := src.Lookup(ctx, t)
		if err == nil {
			log.Debug().Str("source", src.Name()).Str("title", t.Title).Msg("lyrics found")
			return res, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("source", src.Name()).Msg("lyrics lookup failed")
			if failure == nil {
				failure = err
			}
		}
	}

	if failure != nil {
		return Result{}, fmt.Errorf("%s - %s: %w", t.Artist, t.Title, failure)
	}
	return Result{}, fmt.Errorf("%s - %s: %w", t.Artist, t.Title, ErrNotFound)
}
