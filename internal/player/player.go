// Package player samples playback state from an MPRIS media player over the
// session bus.
package player

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"lyrtrack/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisIface       = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	propsIface       = "org.freedesktop.DBus.Properties"

	// upper bound for a single property read; a stuck player costs at most
	// one poll tick, never the whole loop
	callTimeout = 2 * time.Second
)

// Sample is one observation of the player, produced each poll tick. A failed
// poll yields Available == false instead of an error; the next tick retries.
type Sample struct {
	Track      track.Info
	PositionMs int64
	Playing    bool
	Available  bool
}

type Poller struct {
	bus     *dbus.Conn
	service string
}

func NewPoller(bus *dbus.Conn, service string) (*Poller, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if service == "" {
		return nil, errors.New("empty mpris service name")
	}
	return &Poller{bus: bus, service: service}, nil
}

// Sample queries the player once. Every dbus call is bounded by callTimeout.
func (p *Poller) Sample(ctx context.Context) Sample {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	meta, err := p.metadata(ctx)
	if err != nil {
		log.Debug().Err(err).Str("service", p.service).Msg("player unavailable")
		return Sample{}
	}

	info := trackFromMetadata(meta)
	if !info.Valid() {
		return Sample{}
	}

	pos, err := p.positionMs(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to read position")
		return Sample{}
	}

	playing, err := p.playing(ctx)
	if err != nil {
		// a track with no readable status renders as paused
		playing = false
	}

	return Sample{Track: info, PositionMs: pos, Playing: playing, Available: true}
}

func (p *Poller) property(ctx context.Context, name string) (dbus.Variant, error) {
	obj := p.bus.Object(p.service, mprisPath)

	var v dbus.Variant
	err := obj.CallWithContext(ctx, propsIface+".Get", 0, mprisPlayerIface, name).Store(&v)
	if err != nil {
		return dbus.Variant{}, fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}

func (p *Poller) metadata(ctx context.Context) (map[string]dbus.Variant, error) {
	v, err := p.property(ctx, "Metadata")
	if err != nil {
		return nil, err
	}

	meta, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", v.Value())
	}
	return meta, nil
}

func (p *Poller) positionMs(ctx context.Context) (int64, error) {
	v, err := p.property(ctx, "Position")
	if err != nil {
		return 0, err
	}

	micro, ok := v.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected position type %T", v.Value())
	}
	if micro < 0 {
		return 0, nil
	}
	return micro / 1_000, nil
}

func (p *Poller) playing(ctx context.Context) (bool, error) {
	v, err := p.property(ctx, "PlaybackStatus")
	if err != nil {
		return false, err
	}

	status, ok := v.Value().(string)
	if !ok {
		return false, fmt.Errorf("unexpected playback status type %T", v.Value())
	}
	return status == "Playing", nil
}

func trackFromMetadata(meta map[string]dbus.Variant) track.Info {
	return track.Info{
		Identity: track.Identity{
			Title:   extractString(meta, "xesam:title"),
			Artist:  extractArtist(meta, "xesam:artist"),
			TrackID: extractString(meta, "mpris:trackid"),
		},
		Album:      extractString(meta, "xesam:album"),
		ArtworkURL: extractString(meta, "mpris:artUrl"),
		DurationMs: extractDurationMs(meta, "mpris:length"),
	}
}

func extractString(meta map[string]dbus.Variant, key string) string {
	variant, exists := meta[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case string:
		return typed
	case dbus.ObjectPath:
		return string(typed)
	default:
		return ""
	}
}

func extractArtist(meta map[string]dbus.Variant, key string) string {
	variant, exists := meta[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

// extractDurationMs reads an mpris:length value (microseconds, signedness
// varies by player) as milliseconds.
func extractDurationMs(meta map[string]dbus.Variant, key string) int64 {
	variant, exists := meta[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		if typed <= 0 {
			return 0
		}
		return typed / 1_000
	case uint64:
		return int64(typed / 1_000)
	default:
		return 0
	}
}

// List returns the MPRIS service names currently registered on the bus.
func List(bus *dbus.Conn) ([]string, error) {
	var names []string
	err := bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("list dbus names: %w", err)
	}

	var services []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisIface+".") {
			services = append(services, name)
		}
	}
	sort.Strings(services)
	return services, nil
}

// IdentityOf returns the human-readable identity a player advertises, or ""
// when it cannot be read.
func IdentityOf(bus *dbus.Conn, service string) string {
	obj := bus.Object(service, mprisPath)
	variant, err := obj.GetProperty(mprisIface + ".Identity")
	if err != nil {
		return ""
	}

	identity, ok := variant.Value().(string)
	if !ok {
		return ""
	}
	return identity
}
