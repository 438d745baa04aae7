package models

// TranscodeProfile is an encoding target requested from the remote encoder.
// FPS of 0 means "unspecified", letting the encoder keep the source rate.
type TranscodeProfile struct {
	Name    string `json:"name"`
	Width   int64  `json:"width"`
	Height  int64  `json:"height"`
	Bitrate int64  `json:"bitrate"`
	FPS     int    `json:"fps"`
}

const (
	DefaultSizeLimitBytes       = 100_000_000
	DefaultMinAcceptableBitrate = 100_000
)

// SizeConstraint configures the marketplace file-size ceiling an asset must
// fit under, and the bitrate floor below which shrinking is not worth it.
type SizeConstraint struct {
	SizeLimitBytes       int64 `json:"sizeLimitBytes" validate:"omitempty,gt=0"`
	MinAcceptableBitrate int64 `json:"minAcceptableBitrate" validate:"omitempty,gt=0"`
}

func DefaultSizeConstraint() SizeConstraint {
	return SizeConstraint{
		SizeLimitBytes:       DefaultSizeLimitBytes,
		MinAcceptableBitrate: DefaultMinAcceptableBitrate,
	}
}
