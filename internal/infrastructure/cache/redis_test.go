package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisKV_SetGet(t *testing.T) {
	_, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)
	ctx := context.Background()

	if err := kv.Set(ctx, "video_url_1", "https://example.com/embed/abc", 6*time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := kv.Get(ctx, "video_url_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if value != "https://example.com/embed/abc" {
		t.Errorf("value = %q, want %q", value, "https://example.com/embed/abc")
	}
}

func TestRedisKV_Get_CacheMiss(t *testing.T) {
	_, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)

	_, ok, err := kv.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestRedisKV_TTLExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)
	ctx := context.Background()

	if err := kv.Set(ctx, "video_url_2", "null", 30*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(31 * time.Minute)

	_, ok, err := kv.Get(ctx, "video_url_2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected entry to be gone after TTL")
	}
}

func TestRedisKV_ZeroTTLNeverExpires(t *testing.T) {
	mr, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)
	ctx := context.Background()

	if err := kv.Set(ctx, "persistent", "value", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(24 * time.Hour)

	_, ok, err := kv.Get(ctx, "persistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Error("expected TTL-less entry to survive")
	}
}

func TestRedisKV_Delete(t *testing.T) {
	_, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)
	ctx := context.Background()

	if err := kv.Set(ctx, "a", "1", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(ctx, "b", "2", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := kv.Delete(ctx, "a", "b", "absent"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if _, ok, _ := kv.Get(ctx, key); ok {
			t.Errorf("expected %q to be deleted", key)
		}
	}
}

func TestRedisKV_Delete_NoKeys(t *testing.T) {
	_, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)

	if err := kv.Delete(context.Background()); err != nil {
		t.Fatalf("Delete with no keys failed: %v", err)
	}
}

func TestRedisKV_DeleteByPrefix(t *testing.T) {
	_, client := setupTestRedis(t)

	kv := NewRedisKV(client, time.Second)
	ctx := context.Background()

	for _, key := range []string{"video_url_1", "video_url_2", "video_url_3"} {
		if err := kv.Set(ctx, key, "x", 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := kv.Set(ctx, "other_key", "y", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	deleted, err := kv.DeleteByPrefix(ctx, "video_url_")
	if err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	if _, ok, _ := kv.Get(ctx, "other_key"); !ok {
		t.Error("expected non-matching key to survive")
	}
}
