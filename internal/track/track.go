package track

// Identity distinguishes one playing song from another. Players that report
// a stable mpris:trackid are compared by it; everything else falls back to
// the (title, artist) pair.
type Identity struct {
	Title   string
	Artist  string
	TrackID string
}

func (id Identity) Valid() bool {
	return id.Title != "" && id.Artist != ""
}

func (id Identity) Same(other Identity) bool {
	if id.TrackID != "" && other.TrackID != "" {
		return id.TrackID == other.TrackID
	}
	return id.Title == other.Title && id.Artist == other.Artist
}

// Info carries the full metadata reported for the playing track.
type Info struct {
	Identity
	Album      string
	ArtworkURL string
	DurationMs int64
}
