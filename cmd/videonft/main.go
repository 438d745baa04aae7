package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amankumarsingh77/video-nft-minter/internal/chain"
	"github.com/amankumarsingh77/video-nft-minter/internal/config"
	"github.com/amankumarsingh77/video-nft-minter/internal/filesource"
	"github.com/amankumarsingh77/video-nft-minter/internal/models"
	"github.com/amankumarsingh77/video-nft-minter/internal/pipeline"
	"github.com/amankumarsingh77/video-nft-minter/internal/planner"
	"github.com/amankumarsingh77/video-nft-minter/internal/tasks"
	"github.com/amankumarsingh77/video-nft-minter/internal/vodapi/client"
	awsclient "github.com/amankumarsingh77/video-nft-minter/pkg/aws"
	"github.com/amankumarsingh77/video-nft-minter/pkg/logger"
	"github.com/amankumarsingh77/video-nft-minter/pkg/utils"
)

var (
	rootCmd = &cobra.Command{
		Use:   "videonft",
		Short: "Upload videos, export them to IPFS and mint them as NFTs",
		Long: `videonft uploads a video to the hosted processing API, optionally
transcodes it to fit a marketplace file-size limit, exports the result to
IPFS and mints an ERC-721 token referencing the exported metadata.

Examples:
  # Upload, normalize, export and mint in one go
  videonft mint -f clip.mp4 --name "My Clip" --chain polygon

  # Upload straight from S3 and stop after the IPFS export
  videonft upload -f s3://videos/clip.mp4

  # Check what the planner would do for a 200MB 1080p file
  videonft plan --size 200000000 --video-bitrate 2000000 --height 1080 --width 1920`,
	}

	mintCmd = &cobra.Command{
		Use:   "mint",
		Short: "Run the full pipeline: upload, normalize, export and mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, true)
		},
	}

	uploadCmd = &cobra.Command{
		Use:   "upload",
		Short: "Upload and export a video to IPFS without minting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, false)
		},
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Show the transcode decision for a hypothetical asset",
		RunE:  runPlan,
	}
)

func runPipeline(cmd *cobra.Command, mint bool) error {
	ctx := context.Background()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Api.ApiKey == "" {
		return fmt.Errorf("api key is required (flag --api-key or VIDEONFT_API_APIKEY)")
	}
	if err = utils.ValidateStruct(ctx, cfg.Api); err != nil {
		return fmt.Errorf("invalid api config: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()

	filename, _ := cmd.Flags().GetString("filename")
	yes, _ := cmd.Flags().GetBool("yes")
	if filename == "" {
		if yes {
			return fmt.Errorf("filename is required")
		}
		prompt := &survey.Input{Message: "Video file to upload:"}
		if err = survey.AskOne(prompt, &filename, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	source, err := resolveSource(cfg, filename)
	if err != nil {
		return err
	}

	assetName, _ := cmd.Flags().GetString("name")
	rawMetadata, _ := cmd.Flags().GetString("nft-metadata")
	nftMetadata, err := utils.ParseNftMetadata(rawMetadata)
	if err != nil {
		return err
	}
	skipNormalize, _ := cmd.Flags().GetBool("no-transcode")

	var minter chain.Minter
	if mint {
		applyChainFlags(cmd, &cfg.Chain)
		minter, err = chain.NewMinter(ctx, &cfg.Chain, appLogger)
		if err != nil {
			return err
		}
	}

	api := client.NewApiClient(cfg, appLogger)
	p := pipeline.NewPipeline(cfg, api, minter, appLogger)

	steps := &stepPrinter{}
	onProgress := progressPrinter()

	steps.step("Uploading %s", filename)
	asset, err := p.Upload(ctx, source, assetName, onProgress)
	if err != nil {
		return err
	}

	if !skipNormalize {
		steps.step("Checking size constraint (limit %d bytes)", cfg.Constraint.SizeLimitBytes)
		asset, err = p.Normalize(ctx, asset, onProgress, tooLargePrompt(yes))
		if err != nil {
			return err
		}
	}

	steps.step("Exporting asset %s to IPFS", asset.ID)
	exported, err := p.Export(ctx, asset.ID, nftMetadata, onProgress)
	if err != nil {
		return err
	}
	fmt.Printf("   Video: %s\n   Metadata: %s\n", exported.VideoFileUrl, exported.NftMetadataUrl)

	if !mint {
		steps.step("Done")
		return nil
	}

	steps.step("Minting NFT for %s", exported.NftMetadataUrl)
	nft, err := minter.Mint(ctx, exported.NftMetadataUrl)
	if err != nil {
		return err
	}
	steps.step("Done. Transaction %s", nft.TxHash)
	if nft.TokenID != nil {
		fmt.Printf("   Token ID: %s\n", nft.TokenID.String())
	}
	if nft.OpenseaURL != "" {
		fmt.Printf("   OpenSea: %s\n", nft.OpenseaURL)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	size, _ := cmd.Flags().GetInt64("size")
	videoBitrate, _ := cmd.Flags().GetInt64("video-bitrate")
	audioBitrate, _ := cmd.Flags().GetInt64("audio-bitrate")
	width, _ := cmd.Flags().GetInt64("width")
	height, _ := cmd.Flags().GetInt64("height")
	limit, _ := cmd.Flags().GetInt64("limit")
	minBitrate, _ := cmd.Flags().GetInt64("min-bitrate")

	asset := &models.Asset{
		ID:   "probe",
		Size: size,
		VideoSpec: &models.VideoSpec{Tracks: []models.Track{
			{Type: models.TrackTypeVideo, Bitrate: videoBitrate, Width: width, Height: height},
		}},
	}
	if audioBitrate > 0 {
		asset.VideoSpec.Tracks = append(asset.VideoSpec.Tracks, models.Track{
			Type:    models.TrackTypeAudio,
			Bitrate: audioBitrate,
		})
	}
	constraint := models.SizeConstraint{SizeLimitBytes: limit, MinAcceptableBitrate: minBitrate}

	plan, err := planner.PlanNormalization(asset, constraint)
	if err != nil {
		var tooLarge *planner.AssetTooLargeError
		if !errors.As(err, &tooLarge) {
			return err
		}
		fmt.Printf("Cannot fit under %d bytes: required bitrate %d bps is below the %d bps floor\n",
			constraint.SizeLimitBytes, tooLarge.DesiredBitrate, tooLarge.MinBitrate)
		return nil
	}
	if plan.Profile == nil {
		fmt.Println("No transcode needed, asset already fits")
		return nil
	}
	fmt.Printf("Transcode to %s: %dx%d at %d bps\n",
		plan.Profile.Name, plan.Profile.Width, plan.Profile.Height, plan.Profile.Bitrate)
	return nil
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	v := viper.New()
	if _, err := os.Stat(configFile); err == nil {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		v = loaded
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		return nil, err
	}

	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Api.Endpoint = endpoint
	}
	if cfg.Api.Endpoint == "" {
		cfg.Api.Endpoint = "https://livepeer.studio/api"
	}
	if apiKey, _ := cmd.Flags().GetString("api-key"); apiKey != "" {
		cfg.Api.ApiKey = apiKey
	}
	if cfg.Api.ApiKey == "" {
		cfg.Api.ApiKey = os.Getenv("VIDEONFT_API_APIKEY")
	}
	if cfg.Logger.Encoding == "" {
		cfg.Logger.Encoding = "console"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "warn"
	}
	return cfg, nil
}

func applyChainFlags(cmd *cobra.Command, cfg *config.ChainConfig) {
	if name, _ := cmd.Flags().GetString("chain"); name != "" {
		cfg.Name = name
	}
	if contract, _ := cmd.Flags().GetString("contract"); contract != "" {
		cfg.ContractAddress = contract
	}
	if rpcURL, _ := cmd.Flags().GetString("rpc-url"); rpcURL != "" {
		cfg.RpcUrl = rpcURL
	}
	if keyFile, _ := cmd.Flags().GetString("private-key-file"); keyFile != "" {
		if content, err := os.ReadFile(keyFile); err == nil {
			cfg.PrivateKey = strings.TrimSpace(string(content))
		}
	}
}

func resolveSource(cfg *config.Config, filename string) (filesource.FileSource, error) {
	if !strings.HasPrefix(filename, "s3://") {
		return filesource.FromString(filename, nil)
	}
	s3Client, err := awsclient.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		return nil, err
	}
	return filesource.FromString(filename, s3Client)
}

// stepPrinter numbers the user-visible pipeline steps on stdout.
type stepPrinter struct {
	n int
}

func (s *stepPrinter) step(format string, args ...interface{}) {
	s.n++
	fmt.Printf("%d. %s\n", s.n, fmt.Sprintf(format, args...))
}

func progressPrinter() tasks.ProgressObserver {
	return func(progress float64) {
		fmt.Printf("   progress: %.0f%%\n", progress*100)
	}
}

func tooLargePrompt(yes bool) func(*planner.AssetTooLargeError) bool {
	return func(err *planner.AssetTooLargeError) bool {
		fmt.Printf("Warning: %v\n", err)
		if yes {
			return true
		}
		proceed := true
		confirm := &survey.Confirm{
			Message: "Continue without shrinking the file?",
			Default: true,
		}
		if askErr := survey.AskOne(confirm, &proceed); askErr != nil {
			return false
		}
		return proceed
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yml", "Config file path")
	rootCmd.PersistentFlags().String("api-key", "", "API key for the video processing service")
	rootCmd.PersistentFlags().String("endpoint", "", "API endpoint override")

	for _, cmd := range []*cobra.Command{mintCmd, uploadCmd} {
		cmd.Flags().StringP("filename", "f", "", "Video file path or s3://bucket/key")
		cmd.Flags().String("name", "", "Asset name (defaults to the file name)")
		cmd.Flags().String("nft-metadata", "", "NFT metadata overrides, inline JSON or @file")
		cmd.Flags().Bool("no-transcode", false, "Skip the size-constraint transcode")
		cmd.Flags().BoolP("yes", "y", false, "Never prompt, accept all defaults")
	}

	mintCmd.Flags().String("chain", "", "Built-in chain name (polygon, mumbai)")
	mintCmd.Flags().String("contract", "", "ERC-721 contract address override")
	mintCmd.Flags().String("rpc-url", "", "JSON-RPC endpoint of the target chain")
	mintCmd.Flags().String("private-key-file", "", "File containing the hex signer key")

	planCmd.Flags().Int64("size", 0, "Asset size in bytes")
	planCmd.Flags().Int64("video-bitrate", 0, "Video track bitrate in bps")
	planCmd.Flags().Int64("audio-bitrate", 0, "Audio track bitrate in bps")
	planCmd.Flags().Int64("width", 0, "Video width in pixels")
	planCmd.Flags().Int64("height", 0, "Video height in pixels")
	planCmd.Flags().Int64("limit", models.DefaultSizeLimitBytes, "Size limit in bytes")
	planCmd.Flags().Int64("min-bitrate", models.DefaultMinAcceptableBitrate, "Minimum acceptable bitrate in bps")
	planCmd.MarkFlagRequired("size")
	planCmd.MarkFlagRequired("video-bitrate")

	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
