package mw

import (
	"errors"
	"net/http"
	"strings"

	"lanshare-server/service"

	"github.com/gin-gonic/gin"
)

const (
	CtxFilenameKey   = "filename"
	CtxFileHeaderKey = "fileheader"
)

const (
	MsgNoFile          = "Nenhum arquivo enviado"
	MsgInvalidFilename = "Nome de arquivo inválido"
	MsgFileNotFound    = "Arquivo não encontrado"
)

// RequireUploadFile 校验 multipart/form-data 中指定的文件字段存在，并将安全文件名写入 gin context。
func RequireUploadFile(fieldName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgNoFile})
			return
		}

		fileHeader, err := c.FormFile(fieldName)
		if err != nil || fileHeader == nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgNoFile})
			return
		}

		safe, err := service.CleanFilename(fileHeader.Filename)
		if errors.Is(err, service.ErrInvalidFilename) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgInvalidFilename})
			return
		}

		c.Set(CtxFilenameKey, safe)
		c.Set(CtxFileHeaderKey, fileHeader)
		c.Next()
	}
}

// RequireFilename 校验路径参数 filename 非空，并写入 gin context。
func RequireFilename() gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")
		if filename == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": MsgFileNotFound})
			return
		}
		c.Set(CtxFilenameKey, filename)
		c.Next()
	}
}
