// Package pipeline sequences the end-to-end flow: upload the file, shrink it
// under the marketplace size limit when needed, export to IPFS and mint.
package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/amankumarsingh77/video-nft-minter/internal/chain"
	"github.com/amankumarsingh77/video-nft-minter/internal/config"
	"github.com/amankumarsingh77/video-nft-minter/internal/filesource"
	"github.com/amankumarsingh77/video-nft-minter/internal/models"
	"github.com/amankumarsingh77/video-nft-minter/internal/planner"
	"github.com/amankumarsingh77/video-nft-minter/internal/tasks"
	"github.com/amankumarsingh77/video-nft-minter/internal/vodapi"
	"github.com/amankumarsingh77/video-nft-minter/pkg/logger"
)

// Options configures a single pipeline run.
type Options struct {
	Source    filesource.FileSource
	AssetName string
	// SkipNormalize uploads the file as-is even when it exceeds the size
	// constraint.
	SkipNormalize bool
	// NftMetadata entries are merged into the service's default ERC-721
	// metadata on export.
	NftMetadata map[string]interface{}
	// Mint controls whether the exported metadata is minted on-chain; it
	// requires a Minter to have been injected.
	Mint       bool
	OnProgress tasks.ProgressObserver
	// OnAssetTooLarge decides whether to continue unshrunk when the asset
	// cannot fit under the constraint. Nil proceeds with a warning.
	OnAssetTooLarge func(err *planner.AssetTooLargeError) bool
}

// Result collects each stage's output. Export and Nft stay nil for stages
// that were skipped.
type Result struct {
	Asset  *models.Asset
	Export *models.IpfsExportInfo
	Nft    *models.MintedNft
}

type Pipeline struct {
	cfg    *config.Config
	api    vodapi.Repository
	minter chain.Minter
	logger logger.Logger
}

// NewPipeline wires the pipeline's collaborators. minter may be nil when
// minting is not wanted.
func NewPipeline(cfg *config.Config, api vodapi.Repository, minter chain.Minter, log logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		api:    api,
		minter: minter,
		logger: log,
	}
}

// Run executes the stages strictly in order; a stage failure aborts the run
// and leaves earlier stages' remote side effects in place. There is no
// automatic retry at any stage.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Source == nil {
		return nil, errors.New("no file source given")
	}

	asset, err := p.Upload(ctx, opts.Source, opts.AssetName, opts.OnProgress)
	if err != nil {
		return nil, err
	}

	if !opts.SkipNormalize {
		asset, err = p.Normalize(ctx, asset, opts.OnProgress, opts.OnAssetTooLarge)
		if err != nil {
			return nil, err
		}
	}

	exported, err := p.Export(ctx, asset.ID, opts.NftMetadata, opts.OnProgress)
	if err != nil {
		return nil, err
	}

	result := &Result{Asset: asset, Export: exported}
	if opts.Mint {
		if p.minter == nil {
			return nil, &chain.ChainError{Msg: "minting requested but no chain configured"}
		}
		result.Nft, err = p.minter.Mint(ctx, exported.NftMetadataUrl)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Upload streams the source to a fresh upload slot and waits for the import
// task, returning the fully probed asset.
func (p *Pipeline) Upload(ctx context.Context, source filesource.FileSource, name string, onProgress tasks.ProgressObserver) (*models.Asset, error) {
	content, fileName, err := source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer content.Close()

	if name == "" {
		name = fileName
	}
	slot, err := p.api.RequestUpload(ctx, name)
	if err != nil {
		return nil, err
	}
	p.logger.Infof("Uploading %s as asset %s", name, slot.Asset.ID)
	if err = p.api.UploadFile(ctx, slot.Url, content); err != nil {
		return nil, err
	}
	if _, err = p.waitTask(ctx, slot.Task, onProgress); err != nil {
		return nil, err
	}
	return p.api.GetAsset(ctx, slot.Asset.ID)
}

// Normalize transcodes the asset down to the configured size constraint. An
// asset that already fits passes through untouched; one that cannot fit at
// all consults onTooLarge, and proceeds unshrunk unless told to abort.
func (p *Pipeline) Normalize(ctx context.Context, asset *models.Asset, onProgress tasks.ProgressObserver, onTooLarge func(*planner.AssetTooLargeError) bool) (*models.Asset, error) {
	plan, err := planner.PlanNormalization(asset, p.cfg.SizeConstraint())
	if err != nil {
		var tooLarge *planner.AssetTooLargeError
		if !errors.As(err, &tooLarge) {
			return nil, err
		}
		proceed := true
		if onTooLarge != nil {
			proceed = onTooLarge(tooLarge)
		}
		if !proceed {
			return nil, err
		}
		p.logger.Warnf("Asset %s cannot fit under the size limit, continuing without transcode", asset.ID)
		return asset, nil
	}
	if plan.Profile == nil {
		return asset, nil
	}

	p.logger.Infof("Transcoding asset %s to %s (%d bps)", asset.ID, plan.Profile.Name, plan.Profile.Bitrate)
	newAsset, task, err := p.api.Transcode(ctx, asset.ID, *plan.Profile)
	if err != nil {
		return nil, err
	}
	if _, err = p.waitTask(ctx, task, onProgress); err != nil {
		return nil, err
	}
	return p.api.GetAsset(ctx, newAsset.ID)
}

// Export publishes the asset to IPFS and returns the storage addresses from
// the completed task's output.
func (p *Pipeline) Export(ctx context.Context, assetID string, nftMetadata map[string]interface{}, onProgress tasks.ProgressObserver) (*models.IpfsExportInfo, error) {
	task, err := p.api.Export(ctx, assetID, nftMetadata)
	if err != nil {
		return nil, err
	}
	p.logger.Infof("Exporting asset %s to IPFS", assetID)
	done, err := p.waitTask(ctx, task, onProgress)
	if err != nil {
		return nil, err
	}
	if done.Output == nil || done.Output.Export == nil || done.Output.Export.IPFS == nil {
		return nil, errors.Errorf("export task %s completed without ipfs output", done.ID)
	}
	return done.Output.Export.IPFS, nil
}

func (p *Pipeline) waitTask(ctx context.Context, task *models.Task, onProgress tasks.ProgressObserver) (*models.Task, error) {
	return tasks.WaitForTask(ctx, task, p.api.GetTask, onProgress, p.cfg.PollInterval())
}
