package kv

import (
	"errors"
	"testing"
)

func TestNewRedisClient(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		wantAddr string
		wantDB   int
		wantErr  error
	}{
		{name: "bare", url: "localhost:6379", wantAddr: "localhost:6379"},
		{name: "url", url: "redis://cache.internal:6380/2", wantAddr: "cache.internal:6380", wantDB: 2},
		{name: "empty", url: "  ", wantErr: ErrNoRedisURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewRedisClient(tc.url)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRedisClient: %v", err)
			}
			defer client.Close()
			opts := client.Options()
			if opts.Addr != tc.wantAddr || opts.DB != tc.wantDB {
				t.Fatalf("unexpected options addr=%q db=%d", opts.Addr, opts.DB)
			}
		})
	}

	if _, err := NewRedisClient("redis://%zz"); err == nil {
		t.Fatal("expected parse error")
	}
}
