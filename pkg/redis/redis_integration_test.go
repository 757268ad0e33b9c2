//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jceballos29/control-asistencia/config"
)

func TestCheckRateLimit_SlidingWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c, err := NewClient(&config.RedisConfig{Addr: addr}, zap.NewNop())
	if err != nil {
		t.Skipf("Redis 不可用: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := "test:" + uuid.NewString()

	for i := 1; i <= 3; i++ {
		res, err := c.CheckRateLimit(ctx, key, 3, 500*time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("第 %d 次请求期望放行", i)
		}
		if res.Remaining != 3-i {
			t.Errorf("第 %d 次请求剩余期望 %d，得到 %d", i, 3-i, res.Remaining)
		}
	}

	res, err := c.CheckRateLimit(ctx, key, 3, 500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("第 4 次请求期望被拒绝")
	}

	time.Sleep(600 * time.Millisecond)
	res, err = c.CheckRateLimit(ctx, key, 3, 500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatal("窗口过期后期望放行")
	}
}
