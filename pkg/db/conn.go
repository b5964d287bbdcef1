package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const maxOpenConns = 100

// Open 打开 MySQL 连接并确认可用。dsn 需带 parseTime=true。
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql: %w", err)
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}
	return conn, nil
}
