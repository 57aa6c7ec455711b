package upload

import (
	"errors"
	"testing"

	"clipcast/types"
)

func TestPlanChunksPartition(t *testing.T) {
	cases := []struct {
		name      string
		totalSize int64
		chunkSize int64
		wantCount int
		wantSizes []int64
	}{
		{"exact multiple", 8 * 1024 * 1024, 4 * 1024 * 1024, 2, []int64{4194304, 4194304}},
		{"ragged tail", 10000000, 4194304, 3, []int64{4194304, 4194304, 1611392}},
		{"single byte", 1, 4194304, 1, []int64{1}},
		{"chunk size above total", 100, 4194304, 1, []int64{100}},
		{"chunk size equals total", 4096, 4096, 1, []int64{4096}},
		{"tiny chunks", 10, 3, 4, []int64{3, 3, 3, 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			chunks, err := PlanChunks(c.totalSize, c.chunkSize)
			if err != nil {
				t.Fatalf("PlanChunks(%d, %d) error: %v", c.totalSize, c.chunkSize, err)
			}
			if len(chunks) != c.wantCount {
				t.Fatalf("got %d chunks; want %d", len(chunks), c.wantCount)
			}

			var next int64
			for i, chunk := range chunks {
				if chunk.Index != i {
					t.Fatalf("chunk %d has index %d", i, chunk.Index)
				}
				if chunk.Start != next {
					t.Fatalf("chunk %d starts at %d; want %d (gap or overlap)", i, chunk.Start, next)
				}
				if chunk.Length != c.wantSizes[i] {
					t.Fatalf("chunk %d length = %d; want %d", i, chunk.Length, c.wantSizes[i])
				}
				if chunk.End != chunk.Start+chunk.Length-1 {
					t.Fatalf("chunk %d end = %d; want %d", i, chunk.End, chunk.Start+chunk.Length-1)
				}
				next = chunk.End + 1
			}
			if next != c.totalSize {
				t.Fatalf("chunks cover %d bytes; want %d", next, c.totalSize)
			}
		})
	}
}

func TestPlanChunksDeterministic(t *testing.T) {
	a, err := PlanChunks(10000000, 4194304)
	if err != nil {
		t.Fatalf("PlanChunks error: %v", err)
	}
	b, err := PlanChunks(10000000, 4194304)
	if err != nil {
		t.Fatalf("PlanChunks error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("plans differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs between identical plans: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlanChunksRejectsBadInput(t *testing.T) {
	cases := []struct {
		name      string
		totalSize int64
		chunkSize int64
	}{
		{"empty file", 0, 4194304},
		{"negative size", -1, 4194304},
		{"zero chunk size", 100, 0},
		{"negative chunk size", 100, -5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := PlanChunks(c.totalSize, c.chunkSize)
			var invalid *types.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("PlanChunks(%d, %d) = %v; want InvalidInputError", c.totalSize, c.chunkSize, err)
			}
		})
	}
}

func TestContentRange(t *testing.T) {
	c := Chunk{Index: 2, Start: 8388608, End: 9999999, Length: 1611392}
	got := c.ContentRange(10000000)
	want := "bytes 8388608-9999999/10000000"
	if got != want {
		t.Fatalf("ContentRange = %q; want %q", got, want)
	}
}

func TestSessionComplete(t *testing.T) {
	s := &Session{ID: "v1", TotalSize: 10, ChunkSize: 4}
	if s.Complete() {
		t.Fatal("fresh session reports complete")
	}

	chunks, err := PlanChunks(10, 4)
	if err != nil {
		t.Fatalf("PlanChunks error: %v", err)
	}
	for i, c := range chunks {
		s.advance(c)
		if i < len(chunks)-1 && s.Complete() {
			t.Fatalf("session complete after chunk %d of %d", i+1, len(chunks))
		}
	}
	if !s.Complete() {
		t.Fatalf("session not complete after all chunks; offset %d of %d", s.NextOffset, s.TotalSize)
	}
}
