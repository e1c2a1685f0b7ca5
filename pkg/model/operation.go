// pkg/model/operation.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationType identifies a cleaning transformation
type OperationType string

const (
	// OpReplaceNulls replaces every null cell with the N/A sentinel
	OpReplaceNulls OperationType = "replace_nulls"
	// OpImpute fills numeric nulls with a column statistic
	OpImpute OperationType = "impute"
	// OpNormalize standard-scales every numeric column
	OpNormalize OperationType = "normalize"
	// OpEncode integer-codes categorical columns
	OpEncode OperationType = "encode"
)

// ImputeMethod selects the statistic used by the impute operation
type ImputeMethod string

const (
	ImputeMean   ImputeMethod = "mean"
	ImputeMedian ImputeMethod = "median"
	ImputeMode   ImputeMethod = "mode"
)

// Valid reports whether the method is one of mean/median/mode
func (m ImputeMethod) Valid() bool {
	switch m {
	case ImputeMean, ImputeMedian, ImputeMode:
		return true
	}
	return false
}

// PendingOperation is a queued, not-yet-persisted cleaning operation
type PendingOperation struct {
	ID        string                 // Unique operation identifier
	Type      OperationType          // Which transformation to run
	Options   map[string]interface{} // Operation parameters (nil when none)
	Label     string                 // Human-readable description
	CreatedAt time.Time              // When the user queued it
}

// NewPendingOperation creates a queued operation with defaults
func NewPendingOperation(opType OperationType, options map[string]interface{}, label string) PendingOperation {
	return PendingOperation{
		ID:        uuid.New().String(),
		Type:      opType,
		Options:   options,
		Label:     label,
		CreatedAt: time.Now(),
	}
}

// OperationLabel returns the canonical human-readable label for an
// operation request. These match the dashboard's Spanish UI strings.
func OperationLabel(opType OperationType, method ImputeMethod) string {
	switch opType {
	case OpReplaceNulls:
		return "Reemplazar NULL con N/A"
	case OpImpute:
		return fmt.Sprintf("Imputar con %s", method)
	case OpNormalize:
		return "Normalizar con StandardScaler"
	case OpEncode:
		return "Codificar variables categóricas"
	default:
		return string(opType)
	}
}
