package models

import "time"

type TrackType string

const (
	TrackTypeVideo TrackType = "video"
	TrackTypeAudio TrackType = "audio"
)

// Track describes a single media track inside the stored container.
type Track struct {
	Type        TrackType `json:"type"`
	Codec       string    `json:"codec,omitempty"`
	Bitrate     int64     `json:"bitrate,omitempty"`
	Width       int64     `json:"width,omitempty"`
	Height      int64     `json:"height,omitempty"`
	Channels    int       `json:"channels,omitempty"`
	SampleRate  int       `json:"sampleRate,omitempty"`
	DurationSec float64   `json:"duration,omitempty"`
}

type VideoSpec struct {
	Format      string  `json:"format,omitempty"`
	DurationSec float64 `json:"duration,omitempty"`
	Tracks      []Track `json:"tracks,omitempty"`
}

// Asset is a video object tracked by the remote processing service. Instances
// are immutable once fetched; transcodes produce a new asset rather than
// mutating an existing one.
type Asset struct {
	ID         string     `json:"id"`
	PlaybackID string     `json:"playbackId,omitempty"`
	Name       string     `json:"name"`
	Size       int64      `json:"size,omitempty"`
	VideoSpec  *VideoSpec `json:"videoSpec,omitempty"`
	CreatedAt  time.Time  `json:"createdAt,omitempty"`
}

// VideoTrack returns the first video track of the asset, or nil when the
// service has not probed one yet.
func (a *Asset) VideoTrack() *Track {
	return a.track(TrackTypeVideo)
}

// AudioTrack returns the first audio track of the asset, or nil when absent.
func (a *Asset) AudioTrack() *Track {
	return a.track(TrackTypeAudio)
}

func (a *Asset) track(t TrackType) *Track {
	if a == nil || a.VideoSpec == nil {
		return nil
	}
	for i := range a.VideoSpec.Tracks {
		if a.VideoSpec.Tracks[i].Type == t {
			return &a.VideoSpec.Tracks[i]
		}
	}
	return nil
}
