package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/pricecast/internal/core"
)

// Snapshot is a persisted prediction result.
type Snapshot struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol,omitempty"`
	Days       int            `json:"days"`
	Historical core.PriceData `json:"historical"`
	Prediction core.PriceData `json:"prediction"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Archiver writes prediction snapshots to a Storage backend.
type Archiver struct {
	storage Storage
	now     func() time.Time
}

// NewArchiver wraps a storage backend.
func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage, now: time.Now}
}

// SnapshotPath returns the archive path for a snapshot:
// predictions/YYYY/MM/DD/<id>.json
func SnapshotPath(id string, at time.Time) string {
	at = at.UTC()
	return path.Join("predictions", at.Format("2006"), at.Format("01"), at.Format("02"), id+".json")
}

// Save stores a snapshot of a successful prediction and returns its path.
func (a *Archiver) Save(ctx context.Context, symbol string, days int, resp core.PredictionResponse) (string, error) {
	snap := Snapshot{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Days:       days,
		Historical: resp.Historical,
		Prediction: resp.Prediction,
		CreatedAt:  a.now().UTC(),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding snapshot: %w", err))
	}

	p := SnapshotPath(snap.ID, snap.CreatedAt)
	if err := a.storage.Write(ctx, p, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	return p, nil
}

// Load reads a snapshot back from the archive.
func (a *Archiver) Load(ctx context.Context, p string) (*Snapshot, error) {
	data, err := a.storage.Read(ctx, p)
	if err != nil {
		return nil, core.WrapError(core.ErrNotFound, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("decoding snapshot: %w", err))
	}
	return &snap, nil
}

// Recent lists snapshot paths written on the given day.
func (a *Archiver) Recent(ctx context.Context, day time.Time) ([]string, error) {
	day = day.UTC()
	prefix := path.Join("predictions", day.Format("2006"), day.Format("01"), day.Format("02"))
	return a.storage.List(ctx, prefix)
}
