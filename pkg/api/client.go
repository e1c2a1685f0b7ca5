// pkg/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/insightlab/dataprep/pkg/config"
	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/session"
)

// Backend defines the surface of the dataprep backend service
type Backend interface {
	// UploadDataset validates and uploads a local file as a new dataset
	UploadDataset(ctx context.Context, path string) (*model.UploadResult, error)

	// Datasets lists the caller's uploaded datasets
	Datasets(ctx context.Context) ([]model.Dataset, error)

	// Analyze computes a fresh analysis snapshot of a dataset
	Analyze(ctx context.Context, datasetID model.ID) (*model.AnalysisSnapshot, error)

	// AnalyzeCleaned lists the column names of a cleaned dataset
	AnalyzeCleaned(ctx context.Context, datasetID model.ID) ([]string, error)

	// Clean persists the queued operations against a dataset
	Clean(ctx context.Context, datasetID model.ID, ops []model.PendingOperation) ([]string, error)

	// CleanedDatasets lists the caller's cleaned datasets
	CleanedDatasets(ctx context.Context) ([]model.CleanedDataset, error)

	// Train runs a model training job
	Train(ctx context.Context, req model.TrainRequest) (*model.TrainResult, error)

	// Models lists the caller's trained models
	Models(ctx context.Context) ([]model.ModelInfo, error)

	// Health verifies the backend is reachable
	Health(ctx context.Context) error
}

// Client is the HTTP implementation of Backend. Every request carries the
// injected session identity as user_id. Failed requests are not retried;
// callers surface the error and the user decides.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	identity       session.Identity
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewClient creates a backend client from configuration
func NewClient(cfg *config.Config, identity session.Identity, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if identity == nil {
		return nil, errors.New("identity cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.HTTPTimeout},
		identity:       identity,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadMB * 1024 * 1024,
	}, nil
}

// Request/response bodies aligned with the backend JSON contract

type analyzeRequest struct {
	UserID    string   `json:"user_id"`
	DatasetID model.ID `json:"dataset_id"`
}

type cleanRequest struct {
	UserID    string                   `json:"user_id"`
	DatasetID model.ID                 `json:"dataset_id"`
	Operation []string                 `json:"operation"`
	Options   []map[string]interface{} `json:"options"`
}

type trainRequest struct {
	UserID string `json:"user_id"`
	model.TrainRequest
}

type datasetsResponse struct {
	Datasets []model.Dataset `json:"datasets"`
}

type cleanedDatasetsResponse struct {
	Datasets []model.CleanedDataset `json:"datasets"`
}

type analyzeCleanedResponse struct {
	Columns []string `json:"columns"`
}

type cleanResponse struct {
	OperationsApplied []string `json:"operations_applied"`
}

type modelsResponse struct {
	Models []model.ModelInfo `json:"models"`
}

// Datasets lists the caller's uploaded datasets
func (c *Client) Datasets(ctx context.Context) ([]model.Dataset, error) {
	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	var out datasetsResponse
	if err := c.getJSON(ctx, "/datasets/"+userID, &out); err != nil {
		return nil, err
	}
	return out.Datasets, nil
}

// Analyze computes a fresh analysis snapshot of a dataset
func (c *Client) Analyze(ctx context.Context, datasetID model.ID) (*model.AnalysisSnapshot, error) {
	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	var snapshot model.AnalysisSnapshot
	err = c.postJSON(ctx, "/analyze", analyzeRequest{UserID: userID, DatasetID: datasetID}, &snapshot)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Analysis fetched",
		zap.String("dataset_id", string(datasetID)),
		zap.Int("total_rows", snapshot.TotalRows),
		zap.Int("total_nulls", snapshot.TotalNulls))

	return &snapshot, nil
}

// AnalyzeCleaned lists the column names of a cleaned dataset
func (c *Client) AnalyzeCleaned(ctx context.Context, datasetID model.ID) ([]string, error) {
	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	var out analyzeCleanedResponse
	err = c.postJSON(ctx, "/analyze-cleaned", analyzeRequest{UserID: userID, DatasetID: datasetID}, &out)
	if err != nil {
		return nil, err
	}
	return out.Columns, nil
}

// Clean persists the queued operations in append order. Each operation
// ships its own options bag, so a queue with several parameterized
// operations loses nothing in transit.
func (c *Client) Clean(ctx context.Context, datasetID model.ID, ops []model.PendingOperation) ([]string, error) {
	if len(ops) == 0 {
		return nil, errors.New("no pending operations to save")
	}

	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	req := cleanRequest{
		UserID:    userID,
		DatasetID: datasetID,
		Operation: make([]string, len(ops)),
		Options:   make([]map[string]interface{}, len(ops)),
	}
	for i, op := range ops {
		req.Operation[i] = string(op.Type)
		if op.Options != nil {
			req.Options[i] = op.Options
		} else {
			req.Options[i] = map[string]interface{}{}
		}
	}

	var out cleanResponse
	if err := c.postJSON(ctx, "/clean", req, &out); err != nil {
		return nil, err
	}

	c.logger.Info("Cleaning operations persisted",
		zap.String("dataset_id", string(datasetID)),
		zap.Int("operations", len(ops)),
		zap.Strings("applied", out.OperationsApplied))

	return out.OperationsApplied, nil
}

// CleanedDatasets lists the caller's cleaned datasets
func (c *Client) CleanedDatasets(ctx context.Context) ([]model.CleanedDataset, error) {
	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	var out cleanedDatasetsResponse
	if err := c.getJSON(ctx, "/cleaned-datasets/"+userID, &out); err != nil {
		return nil, err
	}
	return out.Datasets, nil
}

// Train runs a model training job with the given parameters
func (c *Client) Train(ctx context.Context, req model.TrainRequest) (*model.TrainResult, error) {
	if req.Name == "" {
		return nil, errors.New("model name cannot be empty")
	}
	if req.Algorithm == "" {
		return nil, errors.New("algorithm cannot be empty")
	}
	if req.TargetVariable == "" {
		return nil, errors.New("target variable cannot be empty")
	}

	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	var out model.TrainResult
	err = c.postJSON(ctx, "/train", trainRequest{UserID: userID, TrainRequest: req}, &out)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Model trained",
		zap.String("name", out.Name),
		zap.String("algorithm", req.Algorithm))

	return &out, nil
}

// Models lists the caller's trained models
func (c *Client) Models(ctx context.Context) ([]model.ModelInfo, error) {
	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	var out modelsResponse
	if err := c.getJSON(ctx, "/models/"+userID, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// Health verifies the backend is reachable. The health endpoint lives on
// the service root, not under the /api prefix.
func (c *Client) Health(ctx context.Context) error {
	endpoint := strings.TrimSuffix(c.baseURL, "/api") + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}

// getJSON issues a GET under the API base path and decodes the response
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// postJSON issues a POST with a JSON body under the API base path and
// decodes the response
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// do executes a request, converts non-2xx responses into *APIError and
// decodes successful bodies into out
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp)
		c.logger.Warn("Backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
