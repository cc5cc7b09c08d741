package httpserver

import (
	"net/http/httptest"
	"testing"
)

func TestIdentityFromHeaders(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name     string
		userID   string
		role     string
		wantOK   bool
		wantUser string
		wantAdm  bool
	}{
		{name: "missing user", wantOK: false},
		{name: "blank user", userID: "   ", wantOK: false},
		{name: "plain user", userID: "alice", wantOK: true, wantUser: "alice"},
		{name: "admin role", userID: "mod", role: "admin", wantOK: true, wantUser: "mod", wantAdm: true},
		{name: "admin role case insensitive", userID: "mod", role: "Admin", wantOK: true, wantUser: "mod", wantAdm: true},
		{name: "other role", userID: "bob", role: "member", wantOK: true, wantUser: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.userID != "" {
				r.Header.Set("X-User-Id", tt.userID)
			}
			if tt.role != "" {
				r.Header.Set("X-User-Role", tt.role)
			}

			user, ok := s.identity(r)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if user.UserID != tt.wantUser || user.Admin != tt.wantAdm {
				t.Fatalf("identity = %+v", user)
			}
		})
	}
}

func TestRoundToOneDecimal(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4.0, 4.0},
		{3.333333, 3.3},
		{3.35, 3.4},
		{4.96, 5.0},
	}
	for _, tt := range tests {
		if got := roundToOneDecimal(tt.in); got != tt.want {
			t.Fatalf("roundToOneDecimal(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-2", 1},
		{"3", 3},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		if got := parsePage(tt.raw); got != tt.want {
			t.Fatalf("parsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"abc", 10},
		{"0", 10},
		{"25", 25},
	}
	for _, tt := range tests {
		if got := parseLimit(tt.raw, 10); got != tt.want {
			t.Fatalf("parseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
