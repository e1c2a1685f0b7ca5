// pkg/preview/queue.go
package preview

import (
	"github.com/insightlab/dataprep/pkg/model"
)

// Queue is the append-only log of operations previewed locally but not yet
// persisted. Order is preserved end to end: operations apply to the preview
// and ship to the backend strictly in append order.
type Queue struct {
	ops []model.PendingOperation
}

// NewQueue creates an empty pending-operation queue
func NewQueue() *Queue {
	return &Queue{}
}

// Append adds an operation to the end of the queue
func (q *Queue) Append(op model.PendingOperation) {
	q.ops = append(q.ops, op)
}

// Len returns the number of queued operations
func (q *Queue) Len() int {
	return len(q.ops)
}

// Operations returns a copy of the queue in append order
func (q *Queue) Operations() []model.PendingOperation {
	out := make([]model.PendingOperation, len(q.ops))
	copy(out, q.ops)
	return out
}

// Labels returns the human-readable labels in append order
func (q *Queue) Labels() []string {
	labels := make([]string, len(q.ops))
	for i, op := range q.ops {
		labels[i] = op.Label
	}
	return labels
}

// Clear empties the queue. Called after a successful save and on reset.
func (q *Queue) Clear() {
	q.ops = nil
}
