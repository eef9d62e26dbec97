package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/safar/armigera-store/internal/models"
)

// Backup is the document written by Export.
type Backup struct {
	Users     []models.User     `json:"users"`
	Products  []models.Product  `json:"products"`
	Posts     []models.BlogPost `json:"posts"`
	Orders    []models.Order    `json:"orders"`
	Timestamp time.Time         `json:"timestamp"`
}

// BackupFileName returns the conventional name for a backup taken at now.
func BackupFileName(now time.Time) string {
	return "armigera-backup-" + now.UTC().Format(time.DateOnly) + ".json"
}

// Export writes users, products, blog posts and orders to w as indented JSON.
func (db *DB) Export(ctx context.Context, w io.Writer) error {
	var (
		b   Backup
		err error
	)
	if b.Users, err = db.Users().GetAll(ctx); err != nil {
		return fmt.Errorf("export users: %w", err)
	}
	if b.Products, err = db.Products().GetAll(ctx); err != nil {
		return fmt.Errorf("export products: %w", err)
	}
	if b.Posts, err = db.BlogPosts().GetAll(ctx); err != nil {
		return fmt.Errorf("export posts: %w", err)
	}
	if b.Orders, err = db.Orders().GetAll(ctx); err != nil {
		return fmt.Errorf("export orders: %w", err)
	}
	b.Timestamp = db.now().UTC()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("export encode: %w", err)
	}
	return nil
}
