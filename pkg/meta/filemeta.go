package meta

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("meta not found")

// Record 某个文件名最近一次上传的元信息。
type Record struct {
	FileName string    `json:"fileName" redis:"file_name"`
	FileSha1 string    `json:"fileSha1" redis:"file_sha1"`
	FileSize int64     `json:"fileSize" redis:"file_size"`
	Location string    `json:"location" redis:"location"`
	UploadAt time.Time `json:"uploadAt" redis:"-"`
}

// Store 上传记录的存储；同名文件的记录会被覆盖。
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, fileName string) (Record, error)
}

// MemoryStore 进程内存储，重启后丢失。
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	s.records[rec.FileName] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, fileName string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[fileName]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
