package api

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"lanshare-server/pkg/logger"
	"lanshare-server/pkg/meta"
	"lanshare-server/pkg/mw"
	"lanshare-server/service"

	"github.com/gin-gonic/gin"
)

const (
	msgReadDirFailed  = "Erro ao ler a pasta"
	msgUploadSuccess  = "Arquivo enviado com sucesso"
	msgSaveFailed     = "Erro ao salvar o arquivo"
	msgMetaNotFound   = "Metadados não encontrados"
	msgMetaFailed     = "Erro ao consultar metadados"
	msgDownloadFailed = "Erro ao baixar o arquivo"
)

// FileAPI 文件相关接口，所有操作都通过 FileService 访问上传目录。
type FileAPI struct {
	files     *service.FileService
	publicDir string
}

func NewFileAPI(files *service.FileService, publicDir string) *FileAPI {
	return &FileAPI{files: files, publicDir: publicDir}
}

// Index 返回首页 index.html
func (a *FileAPI) Index(c *gin.Context) {
	c.File(filepath.Join(a.publicDir, "index.html"))
}

// ListFiles 列出上传目录下的文件
func (a *FileAPI) ListFiles(c *gin.Context) {
	files, err := a.files.ListFiles(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		logger.Error("failed to list files", "request_id", c.GetString(mw.CtxRequestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgReadDirFailed})
		return
	}
	c.JSON(http.StatusOK, files)
}

// UploadFile 上传单个文件（字段 file），同名覆盖。
func (a *FileAPI) UploadFile(c *gin.Context) {
	header, ok := c.MustGet(mw.CtxFileHeaderKey).(*multipart.FileHeader)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": mw.MsgNoFile})
		return
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSaveFailed})
		return
	}
	defer file.Close()

	stored, err := a.files.UploadFile(c.Request.Context(), service.Upload{
		FieldName:    "file",
		OriginalName: header.Filename,
		FileName:     c.GetString(mw.CtxFilenameKey),
		MimeType:     header.Header.Get("Content-Type"),
		Encoding:     header.Header.Get("Content-Transfer-Encoding"),
		Content:      file,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": mw.MsgInvalidFilename})
			return
		}
		_ = c.Error(err)
		logger.Error("failed to store upload", "request_id", c.GetString(mw.CtxRequestIDKey), "file", header.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSaveFailed})
		return
	}

	logger.Info("file uploaded",
		"request_id", c.GetString(mw.CtxRequestIDKey),
		"file", stored.FileName,
		"size", stored.Size,
		"sha1", stored.Sha1,
	)
	c.JSON(http.StatusOK, gin.H{"message": msgUploadSuccess, "file": stored})
}

// DownloadFile 以附件形式下载文件
func (a *FileAPI) DownloadFile(c *gin.Context) {
	filename := c.GetString(mw.CtxFilenameKey)

	f, info, err := a.files.Open(filename)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": mw.MsgFileNotFound})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDownloadFailed})
		return
	}
	defer f.Close()

	// 不用 c.FileAttachment：http.ServeFile 会把 .../index.html 重定向到目录
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name()}))
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// GetFileMeta 获取文件最近一次上传的元信息
func (a *FileAPI) GetFileMeta(c *gin.Context) {
	rec, err := a.files.GetFileMeta(c.Request.Context(), c.GetString(mw.CtxFilenameKey))
	if err != nil {
		if errors.Is(err, meta.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgMetaNotFound})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgMetaFailed})
		return
	}
	c.JSON(http.StatusOK, rec)
}
