package storage

import (
	"context"
	"errors"
	"time"

	"perturbkit/internal/perturb"
)

var ErrRunNotFound = errors.New("run not found")

// RunRecord describes one stored perturbation run.
type RunRecord struct {
	ID        string         `json:"id"`
	Rule      string         `json:"rule"`
	Params    map[string]any `json:"params,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Groups    int            `json:"groups"`
	HasMeta   bool           `json:"has_meta"`
}

// StoredRun is a run together with its variant groups.
type StoredRun struct {
	RunRecord
	Result *perturb.CorpusResult[string] `json:"result"`
}

// RunStore persists corpus results.
type RunStore interface {
	// SaveRun stores the result under a new run ID and returns it.
	SaveRun(ctx context.Context, rec RunRecord, res *perturb.CorpusResult[string]) (string, error)

	// LoadRun retrieves a run and rebuilds its groups in stored order.
	LoadRun(ctx context.Context, id string) (*StoredRun, error)

	// ListRuns returns all runs, newest first.
	ListRuns(ctx context.Context) ([]RunRecord, error)

	Close() error
}
