// Package store keeps the history of analyses served over HTTP so a result
// can be fetched again by id.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edp1096/circuit-analyzer/pkg/analysis"
)

// Record is one stored analysis.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Netlist   string           `json:"netlist" bson:"netlist"`
	Report    *analysis.Report `json:"results" bson:"report"`
}

// NewRecord stamps a fresh id and creation time on a report.
func NewRecord(netlist string, rep *analysis.Report) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Netlist:   netlist,
		Report:    rep,
	}
}

type Store interface {
	Save(ctx context.Context, rec *Record) error
	// Get fails with NOT_FOUND for unknown ids.
	Get(ctx context.Context, id string) (*Record, error)
	Close(ctx context.Context) error
}

// Open returns a Mongo store when uri is set and an in-memory one otherwise.
func Open(ctx context.Context, uri, database, collection string) (Store, error) {
	if uri == "" {
		return NewMemoryStore(), nil
	}
	return NewMongoStore(ctx, uri, database, collection)
}
