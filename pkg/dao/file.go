package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lanshare-server/pkg/meta"
)

const FileTableDDL = `
CREATE TABLE IF NOT EXISTS tbl_file (
  id int(11) NOT NULL AUTO_INCREMENT,
  file_name varchar(255) NOT NULL,
  file_sha1 char(40) NOT NULL DEFAULT '',
  file_size bigint DEFAULT 0,
  file_addr varchar(1024) NOT NULL DEFAULT '',
  upload_at datetime(6) NOT NULL,
  PRIMARY KEY (id),
  UNIQUE KEY idx_file_name (file_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// FileStore 基于 tbl_file 的上传记录存储，以 file_name 为唯一键。
type FileStore struct {
	conn *sql.DB
}

func NewFileStore(conn *sql.DB) *FileStore {
	return &FileStore{conn: conn}
}

// EnsureTable 建表（如不存在）。
func (s *FileStore) EnsureTable(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, FileTableDDL); err != nil {
		return fmt.Errorf("failed to ensure tbl_file: %w", err)
	}
	return nil
}

// Save 同名文件覆盖上传时更新已有记录。
func (s *FileStore) Save(ctx context.Context, rec meta.Record) error {
	const sqlStr = "insert into tbl_file (`file_name`,`file_sha1`,`file_size`,`file_addr`,`upload_at`) values(?,?,?,?,?) " +
		"on duplicate key update `file_sha1`=values(`file_sha1`),`file_size`=values(`file_size`),`file_addr`=values(`file_addr`),`upload_at`=values(`upload_at`)"

	if s.conn == nil {
		return fmt.Errorf("db connection is nil")
	}

	if _, err := s.conn.ExecContext(ctx, sqlStr, rec.FileName, rec.FileSha1, rec.FileSize, rec.Location, rec.UploadAt.UTC()); err != nil {
		return fmt.Errorf("failed to save file meta: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, fileName string) (meta.Record, error) {
	const sqlStr = "select file_name,file_sha1,file_size,file_addr,upload_at from tbl_file where file_name=? limit 1"

	if s.conn == nil {
		return meta.Record{}, fmt.Errorf("db connection is nil")
	}

	var rec meta.Record
	err := s.conn.QueryRowContext(ctx, sqlStr, fileName).Scan(&rec.FileName, &rec.FileSha1, &rec.FileSize, &rec.Location, &rec.UploadAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return meta.Record{}, meta.ErrNotFound
		}
		return meta.Record{}, fmt.Errorf("failed to query file meta: %w", err)
	}
	return rec, nil
}
