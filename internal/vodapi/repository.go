// Package vodapi defines the contract with the hosted video-processing
// service: asset upload, transcoding and IPFS export.
package vodapi

import (
	"context"
	"io"

	"github.com/amankumarsingh77/video-nft-minter/internal/models"
)

// Repository is the remote video-processing API.
type Repository interface {
	// RequestUpload reserves an upload slot, returning the URL to stream
	// the file to together with the pending asset and its import task.
	RequestUpload(ctx context.Context, name string) (*models.UploadSlot, error)
	// UploadFile streams raw file content to a previously reserved URL.
	UploadFile(ctx context.Context, url string, body io.Reader) error
	GetAsset(ctx context.Context, assetID string) (*models.Asset, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	// Transcode requests a re-encode of the asset into the given profile,
	// returning the new asset record and the transcode task to poll.
	Transcode(ctx context.Context, assetID string, profile models.TranscodeProfile) (*models.Asset, *models.Task, error)
	// Export publishes the asset to IPFS. nftMetadata entries are merged
	// into the service's default ERC-721 metadata; nil keeps the defaults.
	Export(ctx context.Context, assetID string, nftMetadata map[string]interface{}) (*models.Task, error)
}
