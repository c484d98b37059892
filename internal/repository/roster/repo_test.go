package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
)

func expertsN(t *testing.T, n int) []expert.Expert {
	t.Helper()
	out := make([]expert.Expert, n)
	for i := range out {
		e, err := expert.New(expert.Attrs{ID: string(rune('a' + i)), Tags: []string{"Hydrology"}})
		if err != nil {
			t.Fatalf("expert: %v", err)
		}
		out[i] = e
	}
	return out
}

func TestRepo_StartsEmpty(t *testing.T) {
	r := New("unused.csv", zap.NewNop())
	if got := r.Experts(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty roster, got %d", len(got))
	}
	if !r.LoadedAt().IsZero() {
		t.Error("expected zero LoadedAt before first load")
	}
}

func TestRepo_Reload(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_roster_size"})
	calls := 0
	r := New("roster.csv", zap.NewNop()).
		WithSizeGauge(gauge).
		WithLoader(func(path string) ([]expert.Expert, error) {
			calls++
			if path != "roster.csv" {
				t.Errorf("unexpected path %q", path)
			}
			return expertsN(t, 2+calls), nil
		})

	n, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 3 || len(r.Experts(context.Background())) != 3 {
		t.Fatalf("expected 3 experts, got n=%d len=%d", n, len(r.Experts(context.Background())))
	}
	if testutil.ToFloat64(gauge) != 3 {
		t.Errorf("gauge = %v, want 3", testutil.ToFloat64(gauge))
	}
	if r.LoadedAt().IsZero() {
		t.Error("expected LoadedAt to be set")
	}
}

func TestRepo_ReloadFailureKeepsPrevious(t *testing.T) {
	fail := false
	r := New("roster.csv", zap.NewNop()).WithLoader(func(string) ([]expert.Expert, error) {
		if fail {
			return nil, errors.New("disk on fire")
		}
		return expertsN(t, 2), nil
	})

	if _, err := r.Reload(context.Background()); err != nil {
		t.Fatalf("first reload: %v", err)
	}
	before := r.Experts(context.Background())

	fail = true
	if _, err := r.Reload(context.Background()); err == nil {
		t.Fatal("expected error from failing loader")
	}
	after := r.Experts(context.Background())
	if len(after) != len(before) || after[0].ID() != before[0].ID() {
		t.Errorf("roster changed after failed reload: %d -> %d", len(before), len(after))
	}
}

func TestRepo_ReloadCanceledContext(t *testing.T) {
	r := New("roster.csv", zap.NewNop()).WithLoader(func(string) ([]expert.Expert, error) {
		t.Fatal("loader must not run on canceled context")
		return nil, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Reload(ctx); err == nil {
		t.Fatal("expected error")
	}
}

func TestRepo_SnapshotIsolation(t *testing.T) {
	gen := 0
	r := New("roster.csv", zap.NewNop()).WithLoader(func(string) ([]expert.Expert, error) {
		gen++
		return expertsN(t, gen), nil
	})
	_, _ = r.Reload(context.Background())
	held := r.Experts(context.Background())

	_, _ = r.Reload(context.Background())
	if len(held) != 1 {
		t.Errorf("held snapshot changed length to %d", len(held))
	}
	if len(r.Experts(context.Background())) != 2 {
		t.Errorf("new snapshot not installed")
	}
}

func TestRepo_ConcurrentReadDuringReload(t *testing.T) {
	r := New("roster.csv", zap.NewNop()).WithLoader(func(string) ([]expert.Expert, error) {
		return expertsN(t, 3), nil
	})
	_, _ = r.Reload(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n := len(r.Experts(context.Background())); n != 3 {
					t.Errorf("observed partial roster of %d", n)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Reload(context.Background())
		}()
	}
	wg.Wait()
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.csv")
	if err := os.WriteFile(path, []byte("Name,Email,Expertise A\nA,a@x.org,Hydrology\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	repo := New(path, zap.NewNop())
	if _, err := repo.Reload(context.Background()); err != nil {
		t.Fatalf("initial reload: %v", err)
	}

	w, err := NewWatcher(repo, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.WithDebounce(10 * time.Millisecond)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	updated := "Name,Email,Expertise A\nA,a@x.org,Hydrology\nB,b@x.org,Meteorology\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(repo.Experts(context.Background())) != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("roster not reloaded, have %d experts", len(repo.Experts(context.Background())))
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned error: %v", err)
	}
}
