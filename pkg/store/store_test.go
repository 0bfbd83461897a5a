package store

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/edp1096/circuit-analyzer/pkg/analysis"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

func report(t *testing.T) *analysis.Report {
	t.Helper()
	res, err := analysis.Run(context.Background(), "V1 1 0 10\nR1 1 2 1k\nR2 2 0 1k\n", analysis.DefaultParams(), analysis.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return res.Report()
}

func TestNewRecord(t *testing.T) {
	a := NewRecord("R1 1 0 1", nil)
	b := NewRecord("R1 1 0 1", nil)
	if a.ID == b.ID {
		t.Error("ids repeat")
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", a.ID, err)
	}
	if a.CreatedAt.IsZero() {
		t.Error("creation time not set")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	rec := NewRecord("V1 1 0 10", report(t))
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if math.Abs(got.Report.Solution["v2"].Re-5) > 1e-9 {
		t.Errorf("stored v2 = %+v", got.Report.Solution["v2"])
	}

	if _, err := s.Get(ctx, uuid.NewString()); !cerrors.Is(err, cerrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if err := s.Save(ctx, &Record{}); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestOpenWithoutURI(t *testing.T) {
	s, err := Open(context.Background(), "", "db", "coll")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open = %T, want *MemoryStore", s)
	}
}

// Records must round-trip through BSON for the Mongo backend.
func TestRecordBSON(t *testing.T) {
	rec := NewRecord("V1 1 0 10", report(t))
	data, err := bson.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Record
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.ID != rec.ID || got.Netlist != rec.Netlist {
		t.Errorf("got %+v", got)
	}
	if math.Abs(got.Report.Solution["v2"].Re-5) > 1e-9 || len(got.Report.Equations) != len(rec.Report.Equations) {
		t.Errorf("report lost in round trip: %+v", got.Report)
	}
}
