package stream

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotblauer/trajio/common"
	"github.com/rotblauer/trajio/reader"
)

func TestPipeline(t *testing.T) {
	ctx := context.Background()
	in := Slice(ctx, []int{1, 2, 3, 4})
	doubled := Transform(ctx, func(v int) int { return v * 2 }, in)
	big := Filter(ctx, func(v int) bool { return v > 4 }, doubled)
	got := Collect(ctx, big)
	if len(got) != 2 || got[0] != 6 || got[1] != 8 {
		t.Fatalf("got %v, want [6 8]", got)
	}
}

func TestTrajectoriesMatchesReadAll(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := filepath.Join(t.TempDir(), "points.csv")
	content := "id,x,y\n1,0,0\n1,1,1\n2,5,5\n3,6,6\n"
	if err := os.WriteFile(path, []byte(content), 0660); err != nil {
		t.Fatal(err)
	}

	r, err := reader.NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	want, err := reader.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Reset(); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	out, errs := Trajectories(ctx, r)
	got := []int{}
	for tr := range out {
		got = append(got, tr.ID)
	}
	if err := <-errs; err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	if len(got) != len(want) {
		t.Fatalf("stream yielded %d, ReadAll %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i].ID {
			t.Fatalf("id mismatch at %d: %d != %d", i, got[i], want[i].ID)
		}
	}
}

func TestTrajectoriesPropagatesError(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()

	path := filepath.Join(t.TempDir(), "points.csv")
	if err := os.WriteFile(path, []byte("id,x,y\n1,bad,0\n"), 0660); err != nil {
		t.Fatal(err)
	}
	r, err := reader.NewPointReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	out, errs := Trajectories(context.Background(), r)
	for range out {
	}
	if err := <-errs; err == nil {
		t.Fatal("want error from malformed record")
	}
}
