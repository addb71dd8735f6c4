package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	tu "github.com/msgidl/msgidl/internal/testutil"
)

func TestListBuilds_Empty(t *testing.T) {
	s := createTestStore(t)

	builds, err := s.ListBuilds(context.Background())
	if err != nil {
		t.Fatalf("ListBuilds() failed: %v", err)
	}
	if builds == nil || len(builds) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", builds)
	}
}

func TestListBuilds_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	gen := tu.NewSequentialBuildIDGenerator("")

	// Inserted out of order; ids sort opposite to seq.
	for _, seq := range []int64{3, 1, 2} {
		b := NewBuild(gen, seq, nil, "h")
		if err := s.RecordBuild(ctx, b); err != nil {
			t.Fatalf("RecordBuild() failed: %v", err)
		}
	}

	builds, err := s.ListBuilds(ctx)
	if err != nil {
		t.Fatalf("ListBuilds() failed: %v", err)
	}
	for i, b := range builds {
		if b.Seq != int64(i+1) {
			t.Errorf("builds[%d].Seq = %d, want %d", i, b.Seq, i+1)
		}
	}
	if builds[0].ID != "test-build-0002" {
		t.Errorf("first build = %s, want test-build-0002", builds[0].ID)
	}
}

func TestLatestBuild(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.LatestBuild(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestBuild() on empty store error = %v, want ErrNotFound", err)
	}

	gen := tu.NewSequentialBuildIDGenerator("b")
	clock := tu.NewDeterministicClock()
	for i := 0; i < 2; i++ {
		if err := s.RecordBuild(ctx, createTestBuild(gen, clock)); err != nil {
			t.Fatalf("RecordBuild() failed: %v", err)
		}
	}

	latest, err := s.LatestBuild(ctx)
	if err != nil {
		t.Fatalf("LatestBuild() failed: %v", err)
	}
	if latest.ID != "b-0002" || latest.Seq != 2 {
		t.Errorf("LatestBuild() = %s (seq %d), want b-0002 (seq 2)", latest.ID, latest.Seq)
	}
}

func TestGetBuild_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetBuild(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBuild() error = %v, want ErrNotFound", err)
	}
}

func TestLoadSpec_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	b := createTestBuild(tu.NewSequentialBuildIDGenerator(""), tu.NewDeterministicClock())
	recordTestBuild(t, s, b, "")

	_, err := s.LoadSpec(ctx, b.ID, "go")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSpec() error = %v, want ErrNotFound", err)
	}
}

func TestFirstBuildWithSpec(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	gen := tu.NewSequentialBuildIDGenerator("")
	clock := tu.NewDeterministicClock()

	first := recordTestBuild(t, s, createTestBuild(gen, clock), "go")
	recordTestBuild(t, s, createTestBuild(gen, clock), "go")

	b, err := s.FirstBuildWithSpec(ctx, "go", first[0].SpecHash)
	if err != nil {
		t.Fatalf("FirstBuildWithSpec() failed: %v", err)
	}
	if b.ID != "test-build-0001" {
		t.Errorf("FirstBuildWithSpec() = %s, want test-build-0001", b.ID)
	}

	if _, err := s.FirstBuildWithSpec(ctx, "", first[0].SpecHash); !errors.Is(err, ErrNotFound) {
		t.Errorf("lookup under another lang error = %v, want ErrNotFound", err)
	}
}

func TestStoredSpec_Indented(t *testing.T) {
	s := createTestStore(t)
	b := createTestBuild(tu.NewSequentialBuildIDGenerator(""), tu.NewDeterministicClock())
	stored := recordTestBuild(t, s, b, "")

	out, err := stored[0].Indented()
	if err != nil {
		t.Fatalf("Indented() failed: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "\n  \"namespace\": [\n    \"demo\"\n  ],") {
		t.Errorf("unexpected indented document:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Error("indented document should end with a newline")
	}
}
