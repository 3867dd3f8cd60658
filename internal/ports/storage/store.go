package storage

// FileStore is the outbound port for uploaded file bytes.
type FileStore interface {
	Save(name string, data []byte) error
	// Remove deletes a stored file. A file that is already gone counts
	// as removed.
	Remove(name string) error
}
