package store

import (
	"io"
	"log"

	"github.com/gcbaptista/go-symptom-mapper/services"
)

// Backend is everything the binaries need from a store.
type Backend interface {
	services.VocabularySource
	services.VocabularyWriter
	services.UnmappedSink
	services.UnmappedReader
	io.Closer
}

var (
	_ Backend = (*SqlStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)

// OpenBackend opens the SQLite database at path, or an in-memory store when path is empty.
func OpenBackend(path string) (Backend, error) {
	if path == "" {
		log.Printf("Warning: no database configured, vocabulary and unmapped terms are kept in memory only")
		return NewMemoryStore(), nil
	}
	return Open(path)
}
