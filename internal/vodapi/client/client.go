package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/amankumarsingh77/video-nft-minter/internal/config"
	"github.com/amankumarsingh77/video-nft-minter/internal/models"
	"github.com/amankumarsingh77/video-nft-minter/internal/vodapi"
	"github.com/amankumarsingh77/video-nft-minter/pkg/logger"
)

const requestTimeout = 60 * time.Second

type apiClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   logger.Logger
}

func NewApiClient(cfg *config.Config, log logger.Logger) vodapi.Repository {
	return &apiClient{
		endpoint: strings.TrimSuffix(cfg.Api.Endpoint, "/"),
		apiKey:   cfg.Api.ApiKey,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   log,
	}
}

func (c *apiClient) RequestUpload(ctx context.Context, name string) (*models.UploadSlot, error) {
	var slot models.UploadSlot
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/asset/request-upload", body, &slot); err != nil {
		return nil, err
	}
	if slot.Asset == nil || slot.Task == nil || slot.Url == "" {
		return nil, errors.New("request-upload response missing url, asset or task")
	}
	return &slot, nil
}

func (c *apiClient) UploadFile(ctx context.Context, url string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return errors.Wrap(err, "building upload request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	// Uploads can far outlast the JSON request timeout.
	uploadClient := &http.Client{}
	res, err := uploadClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "uploading file")
	}
	defer res.Body.Close()
	return checkResponse(res)
}

func (c *apiClient) GetAsset(ctx context.Context, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := c.doJSON(ctx, http.MethodGet, "/asset/"+assetID, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *apiClient) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	if err := c.doJSON(ctx, http.MethodGet, "/task/"+taskID, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *apiClient) Transcode(ctx context.Context, assetID string, profile models.TranscodeProfile) (*models.Asset, *models.Task, error) {
	body := map[string]interface{}{
		"assetId": assetID,
		"name":    fmt.Sprintf("%s (%s)", assetID, profile.Name),
		"profile": profile,
	}
	var out struct {
		Asset *models.Asset `json:"asset"`
		Task  *models.Task  `json:"task"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/asset/transcode", body, &out); err != nil {
		return nil, nil, err
	}
	if out.Asset == nil || out.Task == nil {
		return nil, nil, errors.New("transcode response missing asset or task")
	}
	return out.Asset, out.Task, nil
}

func (c *apiClient) Export(ctx context.Context, assetID string, nftMetadata map[string]interface{}) (*models.Task, error) {
	ipfs := map[string]interface{}{}
	if len(nftMetadata) > 0 {
		ipfs["nftMetadata"] = nftMetadata
	}
	body := map[string]interface{}{"ipfs": ipfs}
	var out struct {
		Task *models.Task `json:"task"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/asset/"+assetID+"/export", body, &out); err != nil {
		return nil, err
	}
	if out.Task == nil {
		return nil, errors.New("export response missing task")
	}
	return out.Task, nil
}

func (c *apiClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return errors.Wrapf(err, "building %s %s request", method, path)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugf("%s %s", method, path)
	res, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	if err = checkResponse(res); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

// checkResponse maps a non-2xx response to a RequestError carrying the first
// entry of a body "errors" array when present, else the raw body.
func checkResponse(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(res.Body)
	message := strings.TrimSpace(string(raw))
	var parsed struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Errors) > 0 {
		message = parsed.Errors[0]
	}
	return &vodapi.RequestError{
		Status:     res.StatusCode,
		StatusText: http.StatusText(res.StatusCode),
		Message:    message,
	}
}
