package redis

import (
	"context"
	"fmt"
	"time"

	"lanshare-server/pkg/meta"

	"github.com/gomodule/redigo/redis"
)

const keyPrefix = "filemeta:"

// FileStore 每个文件名一个 hash：filemeta:<name>。
type FileStore struct {
	pool *redis.Pool
}

func NewFileStore(pool *redis.Pool) *FileStore {
	return &FileStore{pool: pool}
}

// Ping 启动时确认 redis 可用。
func (s *FileStore) Ping(ctx context.Context) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("PING"); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (s *FileStore) Save(ctx context.Context, rec meta.Record) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis conn: %w", err)
	}
	defer conn.Close()

	args := redis.Args{}.Add(keyPrefix + rec.FileName).AddFlat(&rec).Add("upload_at", rec.UploadAt.UnixNano())
	if _, err := conn.Do("HSET", args...); err != nil {
		return fmt.Errorf("failed to save file meta: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, fileName string) (meta.Record, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return meta.Record{}, fmt.Errorf("failed to get redis conn: %w", err)
	}
	defer conn.Close()

	values, err := redis.Values(conn.Do("HGETALL", keyPrefix+fileName))
	if err != nil {
		return meta.Record{}, fmt.Errorf("failed to query file meta: %w", err)
	}
	if len(values) == 0 {
		return meta.Record{}, meta.ErrNotFound
	}

	var rec meta.Record
	if err := redis.ScanStruct(values, &rec); err != nil {
		return meta.Record{}, fmt.Errorf("failed to decode file meta: %w", err)
	}

	uploadAt, err := redis.Int64(conn.Do("HGET", keyPrefix+fileName, "upload_at"))
	if err != nil && err != redis.ErrNil {
		return meta.Record{}, fmt.Errorf("failed to query upload time: %w", err)
	}
	if uploadAt > 0 {
		rec.UploadAt = time.Unix(0, uploadAt)
	}
	return rec, nil
}
