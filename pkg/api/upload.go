// pkg/api/upload.go
package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/insightlab/dataprep/pkg/model"
)

// contentTypeByExtension maps the accepted dataset file extensions to the
// content types the backend expects
var contentTypeByExtension = map[string]string{
	".csv":  "text/csv",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ValidateUpload checks a local file against the upload constraints without
// sending anything: the extension must be CSV/Excel and the size must not
// exceed the configured cap
func (c *Client) ValidateUpload(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := contentTypeByExtension[ext]; !ok {
		return fmt.Errorf("%w: %s (expected .csv, .xls or .xlsx)", ErrUnsupportedFileType, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat upload file: %w", err)
	}
	if info.Size() > c.maxUploadBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), c.maxUploadBytes)
	}

	return nil
}

// UploadDataset validates and uploads a local file as a new dataset.
// Validation failures surface immediately; no request is sent.
func (c *Client) UploadDataset(ctx context.Context, path string) (*model.UploadResult, error) {
	if err := c.ValidateUpload(path); err != nil {
		return nil, err
	}

	userID, err := c.identity.UserID()
	if err != nil {
		return nil, fmt.Errorf("resolve user id: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create multipart file field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	if err := writer.WriteField("user_id", userID); err != nil {
		return nil, fmt.Errorf("write user_id field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out model.UploadResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	c.logger.Info("Dataset uploaded",
		zap.String("file", out.FileName),
		zap.Int("rows", out.Rows),
		zap.Int("columns", out.Columns))

	return &out, nil
}
