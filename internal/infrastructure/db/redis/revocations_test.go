package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

func TestTokenRevocations_Key(t *testing.T) {
	if got := (&TokenRevocations{}).key("abc"); got != "revoked:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestConfig_OptionsDefaults(t *testing.T) {
	opts := Config{Addr: "cache:6379"}.options()
	if opts.Addr != "cache:6379" || opts.PoolSize != defaultPoolSize {
		t.Fatalf("unexpected options: addr=%q pool=%d", opts.Addr, opts.PoolSize)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout || opts.WriteTimeout != defaultTimeout {
		t.Fatalf("expected default timeouts, got dial=%v read=%v write=%v", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestConfig_OptionsFromConfig(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "pw", DB: 2, PoolSize: 3, Timeout: 250 * time.Millisecond}.options()
	if opts.Password != "pw" || opts.DB != 2 || opts.PoolSize != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.ReadTimeout != 250*time.Millisecond || opts.PoolTimeout != 250*time.Millisecond {
		t.Fatalf("timeout not applied: read=%v pool=%v", opts.ReadTimeout, opts.PoolTimeout)
	}
}

func TestOpen_UnreachableIsStorageFault(t *testing.T) {
	// Port 1 on loopback refuses connections immediately.
	_, err := Open(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if !errors.Is(err, domain.ErrStorageFault) {
		t.Fatalf("expected storage fault, got %v", err)
	}
}
