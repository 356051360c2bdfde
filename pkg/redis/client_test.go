package redis

import (
	"context"
	"testing"
	"time"

	"github.com/milkdist/warehouse-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

type fakeCmdable struct {
	values map[string]string
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}}
}

func (f *fakeCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.values[key] = toString(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := f.values[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := f.values[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.values[key] = toString(value)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	f.values[key] = f.values[key] + "x"
	cmd.SetVal(int64(len(f.values[key])))
	return cmd
}

func (f *fakeCmdable) Expire(ctx context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestIdempotencyKeyNamespacing(t *testing.T) {
	c := NewFromCmdable(newFakeCmdable())
	key := c.IdempotencyKey("POST|/api/v1/backorders/bulk", "abc")
	want := "mdw:idempotency:POST|/api/v1/backorders/bulk:abc"
	if key != want {
		t.Fatalf("expected %q, got %q", want, key)
	}
}

func TestSetNXOnlyFirstWriteWins(t *testing.T) {
	c := NewFromCmdable(newFakeCmdable())
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "k", "v1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX should win: ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "k", "v2", time.Minute)
	if err != nil || ok {
		t.Fatalf("second SetNX should lose: ok=%v err=%v", ok, err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v1" {
		t.Fatalf("expected original value, got %q err=%v", got, err)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when url and address are both empty")
	}
}
