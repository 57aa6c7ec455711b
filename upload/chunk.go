package upload

import (
	"fmt"

	"clipcast/types"
)

// DefaultChunkSize is 4 MiB, the size most chunked upload endpoints accept
// without negotiation.
const DefaultChunkSize = 4 * 1024 * 1024

// Chunk is one contiguous byte range of the source file, the unit of a
// single upload request. End is inclusive.
type Chunk struct {
	Index  int
	Start  int64
	End    int64
	Length int64
}

// ContentRange renders the Content-Range header value for this chunk within
// a file of totalSize bytes.
func (c Chunk) ContentRange(totalSize int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", c.Start, c.End, totalSize)
}

// PlanChunks splits [0, totalSize) into ordered fixed-size chunks with no
// gaps or overlaps. The plan is deterministic: the same (size, chunkSize)
// always yields the same sequence. A chunk size at or above the total size
// yields a single chunk. An empty file is rejected before any network call.
func PlanChunks(totalSize, chunkSize int64) ([]Chunk, error) {
	if totalSize <= 0 {
		return nil, &types.InvalidInputError{Reason: "empty file"}
	}
	if chunkSize <= 0 {
		return nil, &types.InvalidInputError{Reason: fmt.Sprintf("chunk size %d", chunkSize)}
	}

	n := int((totalSize + chunkSize - 1) / chunkSize)
	chunks := make([]Chunk, 0, n)
	for i := 0; i < n; i++ {
		start := int64(i) * chunkSize
		end := start + chunkSize - 1
		if end > totalSize-1 {
			end = totalSize - 1
		}
		chunks = append(chunks, Chunk{
			Index:  i,
			Start:  start,
			End:    end,
			Length: end - start + 1,
		})
	}
	return chunks, nil
}
