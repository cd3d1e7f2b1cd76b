package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0) // 10 tokens, 1 token per second

	// Should allow 10 requests immediately (burst)
	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	// 11th request should be denied (no tokens left)
	if bucket.allow() {
		t.Error("Expected 11th request to be denied")
	}
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.getStatus()
	if remaining != 5 {
		t.Errorf("Expected 5 remaining tokens, got %d", remaining)
	}

	if resetTime.Before(time.Now().Add(-time.Second)) {
		t.Error("Reset time should not be in the past")
	}
}

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Should allow requests up to limit
	for i := 0; i < 10; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/test", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", rateInfo.Limit)
		}
	}

	// 11th request should be denied
	allowed, rateInfo := limiter.Allow(clientID, "/test", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if rateInfo.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected whitelisted client to be allowed on request %d", i+1)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.9": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.9", "/test", "GET")
	if allowed {
		t.Error("Expected blacklisted client to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 1000; i++ {
		allowed, _ := limiter.Allow("anyone", "/auth/login", "POST")
		if !allowed {
			t.Fatal("Expected all requests to be allowed when disabled")
		}
	}
}

func TestLimiter_PerClientBuckets(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("client-a", "/test", "GET")
	if !allowed {
		t.Error("Expected first request from client-a to be allowed")
	}
	allowed, _ = limiter.Allow("client-a", "/test", "GET")
	if allowed {
		t.Error("Expected second request from client-a to be denied")
	}

	// A different client gets its own bucket
	allowed, _ = limiter.Allow("client-b", "/test", "GET")
	if !allowed {
		t.Error("Expected first request from client-b to be allowed")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  50,
		DefaultWindow: time.Hour,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 50 {
		t.Errorf("Expected exactly 50 allowed requests, got %d", allowedCount)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path      string
		method    string
		wantMatch bool
		wantLimit int
	}{
		{"/auth/login", "POST", true, 20},
		{"/jobs/generate-description", "POST", true, 30},
		{"/jobs", "POST", true, 100},
		{"/jobs/abc-123", "PUT", true, 100},
		{"/conversations/abc/messages", "POST", true, 120},
		{"/jobs", "GET", false, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantMatch {
				if got == nil {
					t.Fatalf("Expected a match for %s %s", tt.method, tt.path)
				}
				if got.Limit != tt.wantLimit {
					t.Errorf("Expected limit %d, got %d", tt.wantLimit, got.Limit)
				}
			} else if got != nil {
				t.Errorf("Expected no match for %s %s, got %+v", tt.method, tt.path, got)
			}
		})
	}
}

func TestMatchEndpoint_HealthIsUnlimited(t *testing.T) {
	got := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())
	if got == nil || got.Limit != 0 {
		t.Error("Expected health endpoint to be unlimited")
	}
}
