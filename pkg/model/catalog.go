// pkg/model/catalog.go
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque backend identifier. Backends have been observed to send
// ids both as JSON numbers and as strings; either form decodes to the same
// opaque value, and numeric-looking ids encode back as numbers.
type ID string

// UnmarshalJSON accepts both string and numeric id forms
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	switch v := raw.(type) {
	case string:
		*id = ID(v)
	case float64:
		*id = ID(strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
		*id = ""
	default:
		return fmt.Errorf("unsupported id type %T", raw)
	}
	return nil
}

// MarshalJSON emits numeric-looking ids as numbers, matching what the
// backend handed out. Ids whose numeric form does not reproduce the stored
// text exactly (leading zeros, overflow) stay strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

// Dataset describes an uploaded dataset as listed by the backend
type Dataset struct {
	ID         ID      `json:"id"`
	Name       string  `json:"name"`
	NumRows    int     `json:"num_rows"`
	NumColumns int     `json:"num_columns"`
	FileType   string  `json:"file_type"`
	FileSizeMB float64 `json:"file_size_mb"`
	UploadedAt string  `json:"uploaded_at"`
}

// CleanedDataset describes a persisted cleaned dataset
type CleanedDataset struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	NumRows    int    `json:"num_rows"`
	NumColumns int    `json:"num_columns"`
	CreatedAt  string `json:"created_at"`
}

// ModelInfo describes a trained model as listed by the backend
type ModelInfo struct {
	ID           ID                     `json:"id"`
	Name         string                 `json:"name"`
	Algorithm    string                 `json:"algorithm"`
	Accuracy     float64                `json:"accuracy"`
	Metrics      map[string]interface{} `json:"metrics"`
	Status       string                 `json:"status"`
	TrainingTime float64                `json:"training_time"`
}

// TrainRequest carries the parameters of a model training run
type TrainRequest struct {
	DatasetID       ID                     `json:"dataset_id"`
	Name            string                 `json:"name"`
	Algorithm       string                 `json:"algorithm"`
	TargetVariable  string                 `json:"target_variable"`
	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`
	TestSize        float64                `json:"test_size"`
	RandomState     int                    `json:"random_state"`
}

// TrainResult is the backend's response to a training run
type TrainResult struct {
	ID      ID                     `json:"id"`
	Name    string                 `json:"name"`
	Metrics map[string]interface{} `json:"metrics"`
}

// UploadResult is the backend's response to a dataset upload
type UploadResult struct {
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
}
