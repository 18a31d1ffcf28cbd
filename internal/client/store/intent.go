package store

import (
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/google/uuid"
)

// Intent describes a mutation that has been applied locally but not yet
// confirmed by the backend. Snapshot and Index are the rollback point.
type Intent[T models.Record] struct {
	ID       string
	Op       Op
	RecordID models.ID
	// Found is false when the record was absent locally; there is then
	// nothing to restore.
	Found    bool
	Snapshot T
	Index    int
	Started  time.Time
}

func newIntent[T models.Record](op Op, id models.ID) *Intent[T] {
	return &Intent[T]{
		ID:       uuid.NewString(),
		Op:       op,
		RecordID: id,
		Index:    -1,
		Started:  time.Now(),
	}
}
