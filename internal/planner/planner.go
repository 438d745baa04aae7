// Package planner decides whether a video asset must be re-encoded to fit a
// marketplace size ceiling, and picks the bitrate and resolution to request
// from the remote encoder when it must.
package planner

import (
	"fmt"
	"math"

	"github.com/amankumarsingh77/video-nft-minter/internal/models"
)

const (
	// Below this desired bitrate a 720p render wastes bits; step down to 480p.
	min720pBitrate = 500_000

	profile480pWidth  = 854
	profile480pHeight = 480
	profile720pWidth  = 1280
	profile720pHeight = 720
)

// AssetTooLargeError means no bitrate reduction can fit the asset under the
// size limit while staying above the acceptable floor.
type AssetTooLargeError struct {
	AssetID        string
	DesiredBitrate int64
	MinBitrate     int64
	SizeLimitBytes int64
}

func (e *AssetTooLargeError) Error() string {
	return fmt.Sprintf(
		"asset %s cannot fit under %d bytes: required bitrate %d bps is below the %d bps floor",
		e.AssetID, e.SizeLimitBytes, e.DesiredBitrate, e.MinBitrate,
	)
}

// ComputeDesiredBitrate returns the video-only bitrate the asset should be
// re-encoded at to fit under the constraint, or 0 when no transcode is needed
// or possible to compute (asset already under the limit, or no video track).
//
// The target assumes output size scales linearly with combined bitrate at
// fixed duration. Exact for constant-bitrate encodes, approximate otherwise.
func ComputeDesiredBitrate(asset *models.Asset, constraint models.SizeConstraint) (int64, error) {
	if asset == nil || asset.Size <= constraint.SizeLimitBytes {
		return 0, nil
	}
	video := asset.VideoTrack()
	if video == nil || video.Bitrate <= 0 {
		return 0, nil
	}
	var audioBitrate int64
	if audio := asset.AudioTrack(); audio != nil {
		audioBitrate = audio.Bitrate
	}
	combined := video.Bitrate + audioBitrate
	target := int64(float64(combined) * float64(constraint.SizeLimitBytes) / float64(asset.Size))
	desired := target - audioBitrate
	if desired < constraint.MinAcceptableBitrate {
		return 0, &AssetTooLargeError{
			AssetID:        asset.ID,
			DesiredBitrate: desired,
			MinBitrate:     constraint.MinAcceptableBitrate,
			SizeLimitBytes: constraint.SizeLimitBytes,
		}
	}
	return desired, nil
}

// BuildProfile picks the output resolution for a given desired bitrate.
// Quality per pixel roughly tracks bitrate per pixel, so the reference height
// shrinks with the square root of the bitrate ratio. Pure and total.
func BuildProfile(asset *models.Asset, desiredBitrate int64) models.TranscodeProfile {
	var currentBitrate int64 = 1
	var width, height int64
	if video := asset.VideoTrack(); video != nil {
		if video.Bitrate > 0 {
			currentBitrate = video.Bitrate
		}
		width, height = video.Width, video.Height
	}
	referenceHeight := float64(height) * math.Sqrt(float64(desiredBitrate)/float64(currentBitrate))

	switch {
	case height < profile480pHeight || referenceHeight > profile720pHeight:
		// Source already small, or the bitrate cut is mild enough that a
		// resolution step-down would cost more quality than it saves.
		return models.TranscodeProfile{
			Name:    "low-bitrate",
			Width:   width,
			Height:  height,
			Bitrate: desiredBitrate,
		}
	case desiredBitrate < min720pBitrate:
		return models.TranscodeProfile{
			Name:    "480p",
			Width:   profile480pWidth,
			Height:  profile480pHeight,
			Bitrate: desiredBitrate,
		}
	default:
		return models.TranscodeProfile{
			Name:    "720p",
			Width:   profile720pWidth,
			Height:  profile720pHeight,
			Bitrate: desiredBitrate,
		}
	}
}

// Plan is the outcome of PlanNormalization. A nil Profile with Possible true
// means the asset already fits and nothing needs to happen.
type Plan struct {
	Possible bool
	Profile  *models.TranscodeProfile
}

// PlanNormalization combines ComputeDesiredBitrate and BuildProfile. When the
// asset cannot be shrunk enough the returned error is an *AssetTooLargeError
// and the plan reports Possible false; callers may treat that as a choice
// point rather than a fatal failure.
func PlanNormalization(asset *models.Asset, constraint models.SizeConstraint) (Plan, error) {
	desired, err := ComputeDesiredBitrate(asset, constraint)
	if err != nil {
		return Plan{Possible: false}, err
	}
	if desired == 0 {
		return Plan{Possible: true}, nil
	}
	profile := BuildProfile(asset, desired)
	return Plan{Possible: true, Profile: &profile}, nil
}
