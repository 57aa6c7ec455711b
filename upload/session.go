package upload

// Session is one in-flight chunked upload against a platform-issued upload
// URL. NextOffset advances after each acknowledged chunk and never exceeds
// TotalSize; it is the resumption point if a future version persists it.
type Session struct {
	ID         string
	UploadURL  string
	TotalSize  int64
	ChunkSize  int64
	NextOffset int64
}

// Complete reports whether every byte of the file has been acknowledged.
func (s *Session) Complete() bool {
	return s.NextOffset >= s.TotalSize
}

// advance moves the resumption point past an acknowledged chunk.
func (s *Session) advance(c Chunk) {
	if next := c.End + 1; next > s.NextOffset {
		s.NextOffset = next
	}
}
