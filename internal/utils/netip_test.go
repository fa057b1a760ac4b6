package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "203.0.113.9:4000", nil, false, "203.0.113.9"},
		{"proxy headers ignored when untrusted", "10.0.0.1:4000", map[string]string{"X-Forwarded-For": "198.51.100.2"}, false, "10.0.0.1"},
		{"cloudflare first", "10.0.0.1:4000", map[string]string{"CF-Connecting-IP": "198.51.100.3", "X-Forwarded-For": "198.51.100.2"}, true, "198.51.100.3"},
		{"left-most forwarded", "10.0.0.1:4000", map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"}, true, "198.51.100.2"},
		{"real ip", "10.0.0.1:4000", map[string]string{"X-Real-IP": "198.51.100.4"}, true, "198.51.100.4"},
		{"ipv6 remote", "[2001:db8::1]:4000", nil, false, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "2001:db8::/32", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("IsEmpty() = true, want false")
	}

	tests := map[string]bool{
		"10.20.30.40":     true,
		"192.168.1.5":     true,
		"192.168.1.6":     false,
		"::ffff:10.1.1.1": true,
		"2001:db8:1::9":   true,
		"2001:db9::1":     false,
		"not-an-ip":       false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("empty list should produce an empty matcher")
	}
}
