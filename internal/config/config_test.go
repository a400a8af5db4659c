package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "multi delimiters and dedupe",
			raw:  " http://a.example ; http://b.example,\nhttp://a.example ",
			want: []string{"http://a.example", "http://b.example"},
		},
		{
			name: "empty",
			raw:  " , ; \n ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadSyncConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SYNC_PAGE_SIZE", "50")
	t.Setenv("SYNC_CONCURRENCY", "3")
	t.Setenv("SYNC_WINDOW_SPAN", "168h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173;http://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SyncPageSize != 50 {
		t.Fatalf("SyncPageSize = %d, want 50", cfg.SyncPageSize)
	}
	if cfg.SyncConcurrency != 3 {
		t.Fatalf("SyncConcurrency = %d, want 3", cfg.SyncConcurrency)
	}
	if cfg.SyncWindowSpan != 7*24*time.Hour {
		t.Fatalf("SyncWindowSpan = %s, want 168h", cfg.SyncWindowSpan)
	}
	wantOrigins := []string{"http://localhost:5173", "http://example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, wantOrigins) {
		t.Fatalf("CORSAllowedOrigins = %#v, want %#v", cfg.CORSAllowedOrigins, wantOrigins)
	}
}

func TestLoadClampsPageSize(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SYNC_PAGE_SIZE", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SyncPageSize != 100 {
		t.Fatalf("SyncPageSize = %d, want 100 (API ceiling)", cfg.SyncPageSize)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() error = nil, want JWT_SECRET error")
	}
}
