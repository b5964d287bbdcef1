package router

import (
	"lanshare-server/api"
	"lanshare-server/pkg/mw"
	"lanshare-server/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Files       *service.FileService
	PublicDir   string
	UploadQPS   int
	MaxMemoryMB int64
}

// New 构建 gin.Engine：静态资源、上传目录与 /api 路由。
func New(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(), cors.Default())
	if opts.MaxMemoryMB > 0 {
		r.MaxMultipartMemory = opts.MaxMemoryMB << 20
	}

	// 与路由同名的静态文件优先
	r.Use(static.Serve("/", static.LocalFile(opts.PublicDir, false)))
	r.Use(static.Serve("/files", static.LocalFile(opts.Files.Root(), false)))

	files := api.NewFileAPI(opts.Files, opts.PublicDir)

	r.GET("/", files.Index)

	apiGroup := r.Group("/api")
	apiGroup.GET("/files", files.ListFiles)
	apiGroup.POST("/upload", mw.RateLimit(opts.UploadQPS), mw.RequireUploadFile("file"), files.UploadFile)
	apiGroup.GET("/download/:filename", mw.RequireFilename(), files.DownloadFile)
	apiGroup.GET("/meta/:filename", mw.RequireFilename(), files.GetFileMeta)
	return r
}
