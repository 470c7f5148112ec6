package db

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the local sqlite preference store connection.
type Client struct {
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens the local preferences database at the configured path.
func New(ctx context.Context, cfg config.PrefsConfig) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("preferences db path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening preferences db: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&ClientPreference{}); err != nil {
		return nil, fmt.Errorf("migrating preferences db: %w", err)
	}

	return &Client{conn: conn}, nil
}

// DB returns the underlying gorm handle.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("preferences db not initialized")
	}
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
