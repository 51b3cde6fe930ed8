package utils

import (
	"context"
	"testing"
	"time"
)

func TestTokenBlacklist_memory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewTokenBlacklist(nil)
	b.now = func() time.Time { return now }

	if b.IsRevoked(ctx, "tok") {
		t.Fatal("fresh token reported revoked")
	}
	if err := b.Revoke(ctx, "tok", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if !b.IsRevoked(ctx, "tok") {
		t.Fatal("revoked token not reported")
	}

	now = now.Add(2 * time.Hour)
	if b.IsRevoked(ctx, "tok") {
		t.Error("entry outlived the token expiry")
	}

	if err := b.Revoke(ctx, "old", now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if b.IsRevoked(ctx, "old") {
		t.Error("already expired token was stored")
	}
}

func TestTokenBlacklist_redis(t *testing.T) {
	ctx := context.Background()
	mr, rc := newTestRedis(t)
	b := NewTokenBlacklist(rc)

	if err := b.Revoke(ctx, "tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if !b.IsRevoked(ctx, "tok") {
		t.Fatal("revoked token not reported")
	}
	if ttl := mr.TTL(blacklistPrefix + "tok"); ttl <= 0 || ttl > time.Hour {
		t.Errorf("ttl = %v, want within an hour", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if b.IsRevoked(ctx, "tok") {
		t.Error("entry outlived its ttl")
	}
}
