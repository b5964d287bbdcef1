package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"lanshare-server/pkg/config"
	"lanshare-server/pkg/dao"
	"lanshare-server/pkg/db"
	"lanshare-server/pkg/logger"
	"lanshare-server/pkg/meta"
	"lanshare-server/pkg/netutil"
	"lanshare-server/pkg/redis"
	"lanshare-server/pkg/router"
	"lanshare-server/service"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run 返回错误时相关日志已输出；所有资源通过 defer 释放后再退出进程。
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Print("Failed to load config: ", err)
		return err
	}

	if err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}); err != nil {
		log.Print("Failed to initialize logger: ", err)
		return err
	}

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := newMetaStore(cfg.Meta)
	if err != nil {
		logger.Error("Erro ao iniciar o armazenamento de metadados", "backend", cfg.Meta.Backend, "error", err)
		return err
	}
	defer closeStore()

	files, err := service.NewFileService(cfg.Storage.UploadDir, store)
	if err != nil {
		logger.Error("Erro ao criar a pasta de uploads", "dir", cfg.Storage.UploadDir, "error", err)
		return err
	}

	r := router.New(router.Options{
		Files:       files,
		PublicDir:   cfg.Storage.PublicDir,
		UploadQPS:   cfg.Server.UploadQPS,
		MaxMemoryMB: cfg.Storage.MaxMemoryMB,
	})

	ln, err := listen(net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)), cfg.Server.Port)
	if err != nil {
		return err
	}

	printBanner(cfg.Server.Port, cfg.Server.ShowQRCode)

	srv := &http.Server{Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Erro ao iniciar o servidor", "error", err)
			return err
		}
	case <-quit:
		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
		logger.Info("Server stopped")
	}
	return nil
}

// listen 绑定监听地址；端口被占用与其他绑定失败分别记录日志。
func listen(addr string, port int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			logger.Error(fmt.Sprintf("Porta %d já está em uso.", port))
		} else {
			logger.Error("Erro ao iniciar o servidor", "address", addr, "error", err)
		}
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// printBanner 输出本机与局域网访问地址。
func printBanner(port int, showQRCode bool) {
	addresses, err := netutil.LocalIPv4s()
	if err != nil {
		logger.Warn("failed to list network addresses", "error", err)
	}
	local, network := netutil.URLs(port, addresses)

	logger.Info("Servidor rodando em:")
	logger.Info("- Local: " + local)
	for _, u := range network {
		logger.Info("- Rede: " + u)
	}

	if showQRCode && len(network) > 0 {
		netutil.PrintQRCode(os.Stdout, network[0])
	}
}

// newMetaStore 按配置创建上传记录存储，返回的 close 函数用于释放连接。
func newMetaStore(cfg config.MetaConfig) (meta.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.Backend {
	case "", "memory":
		return meta.NewMemoryStore(), func() {}, nil
	case "mysql":
		conn, err := db.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		store := dao.NewFileStore(conn)
		if err := store.EnsureTable(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return store, func() { conn.Close() }, nil
	case "redis":
		pool := redis.NewPool(cfg.RedisAddr, cfg.RedisPassword)
		store := redis.NewFileStore(pool)
		if err := store.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, func() { pool.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown meta backend %q", cfg.Backend)
	}
}
