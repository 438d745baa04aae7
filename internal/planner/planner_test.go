package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amankumarsingh77/video-nft-minter/internal/models"
)

func testAsset(size, videoBitrate, audioBitrate, width, height int64) *models.Asset {
	asset := &models.Asset{
		ID:        "asset-1",
		Name:      "test.mp4",
		Size:      size,
		VideoSpec: &models.VideoSpec{},
	}
	if videoBitrate > 0 {
		asset.VideoSpec.Tracks = append(asset.VideoSpec.Tracks, models.Track{
			Type:    models.TrackTypeVideo,
			Bitrate: videoBitrate,
			Width:   width,
			Height:  height,
		})
	}
	if audioBitrate > 0 {
		asset.VideoSpec.Tracks = append(asset.VideoSpec.Tracks, models.Track{
			Type:    models.TrackTypeAudio,
			Bitrate: audioBitrate,
		})
	}
	return asset
}

func TestComputeDesiredBitrate_UnderLimit(t *testing.T) {
	asset := testAsset(50_000_000, 1_000_000, 0, 1920, 1080)
	desired, err := ComputeDesiredBitrate(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.Zero(t, desired)
}

func TestComputeDesiredBitrate_ExactlyAtLimit(t *testing.T) {
	asset := testAsset(models.DefaultSizeLimitBytes, 1_000_000, 0, 1920, 1080)
	desired, err := ComputeDesiredBitrate(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.Zero(t, desired)
}

func TestComputeDesiredBitrate_MissingSize(t *testing.T) {
	asset := testAsset(0, 1_000_000, 0, 1920, 1080)
	desired, err := ComputeDesiredBitrate(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.Zero(t, desired)
}

func TestComputeDesiredBitrate_MissingVideoTrack(t *testing.T) {
	asset := testAsset(200_000_000, 0, 128_000, 0, 0)
	desired, err := ComputeDesiredBitrate(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.Zero(t, desired)
}

func TestComputeDesiredBitrate_ProportionalScaling(t *testing.T) {
	// 200MB asset against a 100MB limit halves the combined bitrate.
	asset := testAsset(200_000_000, 2_000_000, 128_000, 1920, 1080)
	desired, err := ComputeDesiredBitrate(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.Equal(t, int64(936_000), desired)
}

func TestComputeDesiredBitrate_TooLarge(t *testing.T) {
	asset := testAsset(2_000_000_000, 2_000_000, 128_000, 1920, 1080)
	_, err := ComputeDesiredBitrate(asset, models.DefaultSizeConstraint())
	require.Error(t, err)
	var tooLarge *AssetTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "asset-1", tooLarge.AssetID)
	assert.Less(t, tooLarge.DesiredBitrate, tooLarge.MinBitrate)
}

func TestComputeDesiredBitrate_FloorBoundary(t *testing.T) {
	// Pick sizes so desired lands exactly on the floor: only strictly
	// below it is rejected.
	constraint := models.SizeConstraint{SizeLimitBytes: 100_000_000, MinAcceptableBitrate: 100_000}
	asset := testAsset(1_000_000_000, 1_000_000, 0, 1920, 1080)
	desired, err := ComputeDesiredBitrate(asset, constraint)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), desired)
}

func TestBuildProfile_KeepsResolutionOnMildCut(t *testing.T) {
	asset := testAsset(200_000_000, 2_000_000, 128_000, 1920, 1080)
	profile := BuildProfile(asset, 936_000)
	assert.Equal(t, "low-bitrate", profile.Name)
	assert.Equal(t, int64(1920), profile.Width)
	assert.Equal(t, int64(1080), profile.Height)
	assert.Equal(t, int64(936_000), profile.Bitrate)
	assert.Zero(t, profile.FPS)
}

func TestBuildProfile_SmallSourceAlwaysLowBitrate(t *testing.T) {
	asset := testAsset(200_000_000, 2_000_000, 0, 640, 360)
	for _, bitrate := range []int64{100_000, 400_000, 900_000, 1_900_000} {
		profile := BuildProfile(asset, bitrate)
		assert.Equal(t, "low-bitrate", profile.Name)
		assert.Equal(t, int64(640), profile.Width)
		assert.Equal(t, int64(360), profile.Height)
	}
}

func TestBuildProfile_480pTier(t *testing.T) {
	asset := testAsset(400_000_000, 8_000_000, 0, 1920, 1080)
	// referenceHeight = 1080*sqrt(400000/8000000) ≈ 241, well under 720.
	profile := BuildProfile(asset, 400_000)
	assert.Equal(t, "480p", profile.Name)
	assert.Equal(t, int64(854), profile.Width)
	assert.Equal(t, int64(480), profile.Height)
}

func TestBuildProfile_720pTier(t *testing.T) {
	asset := testAsset(400_000_000, 8_000_000, 0, 1920, 1080)
	// referenceHeight = 1080*sqrt(2000000/8000000) = 540, inside (480, 720].
	profile := BuildProfile(asset, 2_000_000)
	assert.Equal(t, "720p", profile.Name)
	assert.Equal(t, int64(1280), profile.Width)
	assert.Equal(t, int64(720), profile.Height)
}

func TestBuildProfile_Deterministic(t *testing.T) {
	asset := testAsset(400_000_000, 8_000_000, 0, 1920, 1080)
	first := BuildProfile(asset, 2_000_000)
	second := BuildProfile(asset, 2_000_000)
	assert.Equal(t, first, second)
}

func TestPlanNormalization_NothingToDo(t *testing.T) {
	asset := testAsset(50_000_000, 1_000_000, 0, 1920, 1080)
	plan, err := PlanNormalization(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.True(t, plan.Possible)
	assert.Nil(t, plan.Profile)
}

func TestPlanNormalization_ProducesProfile(t *testing.T) {
	asset := testAsset(200_000_000, 2_000_000, 128_000, 1920, 1080)
	plan, err := PlanNormalization(asset, models.DefaultSizeConstraint())
	require.NoError(t, err)
	assert.True(t, plan.Possible)
	require.NotNil(t, plan.Profile)
	assert.Equal(t, "low-bitrate", plan.Profile.Name)
}

func TestPlanNormalization_Impossible(t *testing.T) {
	asset := testAsset(2_000_000_000, 2_000_000, 128_000, 1920, 1080)
	plan, err := PlanNormalization(asset, models.DefaultSizeConstraint())
	var tooLarge *AssetTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.False(t, plan.Possible)
	assert.Nil(t, plan.Profile)
}
