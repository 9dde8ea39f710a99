package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"miniblog/internal/model"
)

func TestCategoryCacheRoundTripAndInvalidate(t *testing.T) {
	server, client := newTestRedis(t)
	c := NewCategoryCache(client, time.Minute)
	ctx := context.Background()

	if _, hit, err := c.GetAll(ctx); err != nil || hit {
		t.Fatalf("expected miss on empty cache, got hit=%v err=%v", hit, err)
	}

	want := []model.Category{{ID: 2, Name: "Databases"}, {ID: 1, Name: "Go"}}
	if err := c.SetAll(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := server.TTL(categoriesKey); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	got, hit, err := c.GetAll(ctx)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, hit, err := c.GetAll(ctx); err != nil || hit {
		t.Fatalf("expected miss after invalidate, got hit=%v err=%v", hit, err)
	}
}

func TestCategoryCacheExpiresAndDefaultsTTL(t *testing.T) {
	server, client := newTestRedis(t)
	c := NewCategoryCache(client, 0)
	ctx := context.Background()

	if err := c.SetAll(ctx, []model.Category{{ID: 1, Name: "Go"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := server.TTL(categoriesKey); ttl != 5*time.Minute {
		t.Fatalf("expected default 5m ttl, got %v", ttl)
	}
	server.FastForward(6 * time.Minute)
	if _, hit, err := c.GetAll(ctx); err != nil || hit {
		t.Fatalf("expected miss after expiry, got hit=%v err=%v", hit, err)
	}
}

func TestCategoryCacheCorruptPayload(t *testing.T) {
	server, client := newTestRedis(t)
	c := NewCategoryCache(client, time.Minute)

	if err := server.Set(categoriesKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, hit, err := c.GetAll(context.Background()); err == nil || hit {
		t.Fatalf("expected decode error, got hit=%v err=%v", hit, err)
	}
}
