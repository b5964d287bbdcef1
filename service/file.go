package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lanshare-server/pkg/logger"
	"lanshare-server/pkg/meta"
	util "lanshare-server/pkg/utils"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilename = errors.New("invalid filename")
)

// StoredFile 上传目录下一个条目的元信息。
type StoredFile struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
	Type        string    `json:"type"`
	IsDirectory bool      `json:"isDirectory"`
}

// UploadedFile 上传成功后返回给调用方的描述。
type UploadedFile struct {
	FieldName    string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	Encoding     string `json:"encoding"`
	MimeType     string `json:"mimetype"`
	Destination  string `json:"destination"`
	FileName     string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Sha1         string `json:"sha1"`
}

// Upload 一次上传请求的输入。
type Upload struct {
	FieldName    string
	OriginalName string
	FileName     string // 已规范化的落盘文件名
	MimeType     string
	Encoding     string // Content-Transfer-Encoding，缺省为 7bit
	Content      io.Reader
}

// FileService 持有上传目录，所有文件操作都相对于该目录。
type FileService struct {
	root  string
	store meta.Store
}

// NewFileService 上传目录不存在时创建。
func NewFileService(root string, store meta.Store) (*FileService, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if store == nil {
		store = meta.NewMemoryStore()
	}
	return &FileService{root: root, store: store}, nil
}

func (s *FileService) Root() string {
	return s.root
}

// ListFiles 非递归列出上传目录。空目录返回空切片而不是 nil。
func (s *FileService) ListFiles(ctx context.Context) ([]StoredFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, StoredFile{
			Name:        entry.Name(),
			Path:        "/files/" + entry.Name(),
			Size:        info.Size(),
			Modified:    info.ModTime().UTC(),
			Type:        FileType(entry.Name()),
			IsDirectory: info.IsDir(),
		})
	}
	return files, nil
}

// UploadFile 落盘并记录元信息；同名文件直接覆盖。写入失败会删除残留文件。
func (s *FileService) UploadFile(ctx context.Context, up Upload) (UploadedFile, error) {
	name, err := CleanFilename(up.FileName)
	if err != nil {
		return UploadedFile{}, err
	}

	location := filepath.Join(s.root, name)
	dst, err := os.Create(location)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to create file: %w", err)
	}

	shouldCleanup := true
	defer func() {
		_ = dst.Close()
		if shouldCleanup {
			_ = os.Remove(location)
		}
	}()

	hash := util.NewSha1Writer()
	size, err := io.Copy(io.MultiWriter(dst, hash), up.Content)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Sync(); err != nil {
		return UploadedFile{}, fmt.Errorf("failed to flush file: %w", err)
	}
	shouldCleanup = false

	rec := meta.Record{
		FileName: name,
		FileSha1: hash.Sum(),
		FileSize: size,
		Location: location,
		UploadAt: time.Now(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		// 元信息只是附加记录，不影响上传结果
		logger.Warn("failed to persist file meta", "file", name, "error", err)
	}

	encoding := up.Encoding
	if encoding == "" {
		encoding = "7bit"
	}

	return UploadedFile{
		FieldName:    up.FieldName,
		OriginalName: up.OriginalName,
		Encoding:     encoding,
		MimeType:     up.MimeType,
		Destination:  s.root,
		FileName:     name,
		Path:         location,
		Size:         size,
		Sha1:         rec.FileSha1,
	}, nil
}

// Locate 返回可下载文件的完整路径。不存在、是目录或名称非法都视为不存在。
func (s *FileService) Locate(name string) (string, error) {
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", ErrFileNotFound
	}
	if _, err := CleanFilename(name); err != nil {
		return "", ErrFileNotFound
	}

	location := filepath.Join(s.root, name)
	info, err := os.Stat(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", ErrFileNotFound
	}
	return location, nil
}

// Open 打开待下载的文件，调用方负责关闭。
func (s *FileService) Open(name string) (*os.File, fs.FileInfo, error) {
	location, err := s.Locate(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return f, info, nil
}

// GetFileMeta 查询文件最近一次上传的记录。
func (s *FileService) GetFileMeta(ctx context.Context, name string) (meta.Record, error) {
	return s.store.Get(ctx, name)
}

// CleanFilename 取声明文件名的最后一段（\ 视为分隔符），拒绝空名与 . / ..。
func CleanFilename(name string) (string, error) {
	safe := strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(safe, "/"); idx >= 0 {
		safe = safe[idx+1:]
	}
	// 首尾空格是合法文件名的一部分，不做裁剪
	if safe == "" || safe == "." || safe == ".." {
		return "", ErrInvalidFilename
	}
	return safe, nil
}

// FileType 小写扩展名（不含点）；".env" 这类点开头的文件没有扩展名。
func FileType(name string) string {
	base := strings.TrimLeft(name, ".")
	ext := filepath.Ext(base)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
