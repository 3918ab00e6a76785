package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type recordedExec struct {
	sql  string
	args []any
}

type fakeDB struct {
	mu    sync.Mutex
	execs []recordedExec
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, recordedExec{sql: sql, args: args})
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{id: "run-1"}
}

// lastStatus is the status argument of the most recent job_runs update,
// or "" when no update has happened yet.
func (f *fakeDB) lastStatus() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.execs) == 0 {
		return ""
	}
	status, _ := f.execs[len(f.execs)-1].args[0].(string)
	return status
}

type fakeRow struct {
	id string
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if p, ok := dest[0].(*string); ok {
			*p = r.id
		}
	}
	return nil
}

func TestEnqueueRunsThroughWorker(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	done := make(chan struct{})
	svc.Enqueue("directory_sync", func(context.Context) (any, error) {
		close(done)
		return map[string]int{"found": 3}, nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job never ran")
	}

	deadline := time.Now().Add(2 * time.Second)
	for db.lastStatus() != "completed" {
		if time.Now().After(deadline) {
			t.Fatalf("expected completed job run, got %q", db.lastStatus())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)

	_, err := svc.RunNow(context.Background(), "directory_sync", func(context.Context) (any, error) {
		return nil, errors.New("provider down")
	})
	if err == nil {
		t.Fatal("expected the job error to propagate")
	}
	if got := db.lastStatus(); got != "failed" {
		t.Fatalf("expected failed status, got %q", got)
	}
}

func TestRunNowReturnsDetails(t *testing.T) {
	db := &fakeDB{}
	svc := New(db)

	details, err := svc.RunNow(context.Background(), "directory_sync", func(context.Context) (any, error) {
		return map[string]int{"created": 2}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := details.(map[string]int)
	if !ok || m["created"] != 2 {
		t.Fatalf("unexpected details: %v", details)
	}
	if got := db.lastStatus(); got != "completed" {
		t.Fatalf("expected completed status, got %q", got)
	}
}
