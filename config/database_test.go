package config

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestOpenDatabase_sqlite(t *testing.T) {
	cfg := Defaults()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = ":memory:"

	db, err := OpenDatabase(cfg, zaptest.NewLogger(t), &widget{})
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	t.Cleanup(func() { _ = CloseDatabase(db) })

	if !db.Migrator().HasTable(&widget{}) {
		t.Fatal("table was not migrated")
	}
	if err := db.Create(&widget{Name: "a"}).Error; err != nil {
		t.Fatal(err)
	}
	var n int64
	if err := db.Model(&widget{}).Count(&n).Error; err != nil || n != 1 {
		t.Errorf("count = %d, err = %v", n, err)
	}
}

func TestOpenDatabase_unknownDriver(t *testing.T) {
	cfg := Defaults()
	cfg.DBDriver = "oracle"
	if _, err := OpenDatabase(cfg, nil); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestMysqlDSN(t *testing.T) {
	cfg := Defaults()
	cfg.DBUser, cfg.DBPassword, cfg.DBName = "u", "p", "blog"
	if got, want := mysqlDSN(cfg), "u:p@tcp(127.0.0.1:3306)/blog?charset=utf8mb4&parseTime=True&loc=Local"; got != want {
		t.Errorf("mysqlDSN = %q, want %q", got, want)
	}
	cfg.DatabaseURI = "custom"
	if got := mysqlDSN(cfg); got != "custom" {
		t.Errorf("DatabaseURI not preferred: %q", got)
	}
}
