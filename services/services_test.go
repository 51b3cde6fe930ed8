package services

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/cppla/dollarblog/config"
	"github.com/cppla/dollarblog/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Defaults()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = ":memory:"
	cfg.LogLevel = "error"
	db, err := config.OpenDatabase(cfg, zaptest.NewLogger(t), models.All()...)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })
	return db
}

// seedUser registers a user and returns its id.
func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	u, err := NewUserService(db, zaptest.NewLogger(t)).Register(context.Background(), "Name "+username, username, "pw")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u.ID
}

// seedPost publishes a post by authorID and returns its id.
func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string) uint {
	t.Helper()
	p, err := NewPostService(db, zaptest.NewLogger(t)).Publish(context.Background(), authorID, title, "story of "+title, "uploads/"+title+".png")
	if err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return p.ID
}

func loadPost(t *testing.T, db *gorm.DB, id uint) models.Post {
	t.Helper()
	var p models.Post
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("load post %d: %v", id, err)
	}
	return p
}
