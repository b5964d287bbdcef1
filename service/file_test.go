package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lanshare-server/pkg/meta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*FileService, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "files")
	svc, err := NewFileService(root, meta.NewMemoryStore())
	require.NoError(t, err)
	return svc, root
}

func upload(t *testing.T, svc *FileService, name, content string) UploadedFile {
	t.Helper()
	f, err := svc.UploadFile(context.Background(), Upload{
		FieldName:    "file",
		OriginalName: name,
		FileName:     name,
		MimeType:     "text/plain",
		Content:      strings.NewReader(content),
	})
	require.NoError(t, err)
	return f
}

func TestNewFileService_CreatesRoot(t *testing.T) {
	_, root := newTestService(t)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListFiles_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	files, err := svc.ListFiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestListFiles_MissingDir(t *testing.T) {
	svc, root := newTestService(t)
	require.NoError(t, os.RemoveAll(root))

	_, err := svc.ListFiles(context.Background())
	assert.Error(t, err)
}

func TestUploadThenList(t *testing.T) {
	svc, root := newTestService(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	got := upload(t, svc, "Report.PDF", "pdf-bytes")
	assert.Equal(t, "Report.PDF", got.FileName)
	assert.EqualValues(t, len("pdf-bytes"), got.Size)
	assert.Equal(t, filepath.Join(root, "Report.PDF"), got.Path)

	files, err := svc.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)

	byName := map[string]StoredFile{}
	for _, f := range files {
		byName[f.Name] = f
	}
	report := byName["Report.PDF"]
	assert.Equal(t, "/files/Report.PDF", report.Path)
	assert.Equal(t, "pdf", report.Type)
	assert.EqualValues(t, 9, report.Size)
	assert.False(t, report.IsDirectory)
	assert.False(t, report.Modified.IsZero())

	assert.True(t, byName["sub"].IsDirectory)
}

func TestUpload_OverwritesSameName(t *testing.T) {
	svc, root := newTestService(t)

	upload(t, svc, "a.txt", "first version")
	second := upload(t, svc, "a.txt", "second")

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	rec, err := svc.GetFileMeta(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, second.Sha1, rec.FileSha1)
	assert.EqualValues(t, 6, rec.FileSize)
}

func TestUpload_TraversalNameStaysInRoot(t *testing.T) {
	svc, root := newTestService(t)

	got := upload(t, svc, "../../etc/evil.txt", "x")
	assert.Equal(t, "evil.txt", got.FileName)
	assert.FileExists(t, filepath.Join(root, "evil.txt"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "evil.txt"))
}

func TestUpload_InvalidName(t *testing.T) {
	svc, _ := newTestService(t)

	for _, name := range []string{"", ".", "..", "dir/..", `..\`} {
		_, err := svc.UploadFile(context.Background(), Upload{FileName: name, Content: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrInvalidFilename, "name %q", name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUpload_FailedCopyRemovesFile(t *testing.T) {
	svc, root := newTestService(t)

	_, err := svc.UploadFile(context.Background(), Upload{FileName: "broken.bin", Content: failingReader{}})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(root, "broken.bin"))
}

func TestLocate(t *testing.T) {
	svc, root := newTestService(t)
	upload(t, svc, "report.pdf", "data")
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	path, err := svc.Locate("report.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "report.pdf"), path)

	for _, name := range []string{"does-not-exist.txt", "sub", "..", "../files/report.pdf", ""} {
		_, err := svc.Locate(name)
		assert.ErrorIs(t, err, ErrFileNotFound, "name %q", name)
	}
}

func TestGetFileMeta_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetFileMeta(context.Background(), "nothing.txt")
	assert.ErrorIs(t, err, meta.ErrNotFound)
}

func TestFileType(t *testing.T) {
	cases := map[string]string{
		"report.PDF":     "pdf",
		"archive.tar.gz": "gz",
		"README":         "",
		".env":           "",
		"trailing.":      "",
	}
	for name, want := range cases {
		assert.Equal(t, want, FileType(name), name)
	}
}

func TestOpen(t *testing.T) {
	svc, _ := newTestService(t)
	upload(t, svc, "notes.txt", "hello")

	f, info, err := svc.Open("notes.txt")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "notes.txt", info.Name())
	assert.EqualValues(t, 5, info.Size())

	_, _, err = svc.Open("missing.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestCleanFilename_KeepsSpaces(t *testing.T) {
	cases := map[string]string{
		" notes.txt":      " notes.txt",
		"draft .md ":      "draft .md ",
		"dir/ spaced.txt": " spaced.txt",
		`C:\docs\a b.txt`: "a b.txt",
		"  ":              "  ",
	}
	for in, want := range cases {
		got, err := CleanFilename(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestUpload_Encoding(t *testing.T) {
	svc, _ := newTestService(t)

	got := upload(t, svc, "plain.txt", "x")
	assert.Equal(t, "7bit", got.Encoding)

	bin, err := svc.UploadFile(context.Background(), Upload{FileName: "raw.bin", Encoding: "binary", Content: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "binary", bin.Encoding)
}
