package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateInputType(t *testing.T) {
	for _, ok := range []string{"text", "image", "video", "voice", "TEXT"} {
		if err := ValidateInputType(ok); err != nil {
			t.Errorf("%q: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"", "audio", "pdf"} {
		if err := ValidateInputType(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"line1\nline2", "line1\nline2"},
		{"tab\there", "tab\there"},
		{"bell\x07gone", "bellgone"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in); got != tc.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateAnalysisID(t *testing.T) {
	if err := ValidateAnalysisID("0b7ac93e-1f7b-4a08-9d2e-3c4b5a6d7e8f"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	for _, bad := range []string{"", "not-a-uuid", "12345"} {
		if err := ValidateAnalysisID(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 10},
		{-5, 10},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, tc := range cases {
		if got := ValidateLimit(tc.in); got != tc.want {
			t.Errorf("ValidateLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClientIPPrefersForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4321"

	if got := clientIP(req); got != "192.0.2.10" {
		t.Errorf("clientIP = %s, want RemoteAddr host", got)
	}

	req.Header.Set("X-Real-IP", "203.0.113.7")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP = %s, want X-Real-IP", got)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	if got := clientIP(req); got != "198.51.100.1" {
		t.Errorf("clientIP = %s, want first X-Forwarded-For entry", got)
	}
}

func TestMetadataFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "factsense-test/1.0")
	req.RemoteAddr = "192.0.2.10:4321"

	// tanpa middleware: dibangun langsung dari request
	md := MetadataFromRequest(req)
	if md.UserAgent != "factsense-test/1.0" || md.IPAddress != "192.0.2.10" {
		t.Errorf("metadata = %+v", md)
	}

	// dengan middleware: diambil dari context
	var fromCtx string
	h := AnnotateMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = MetadataFromRequest(r).IPAddress
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if fromCtx != "192.0.2.10" {
		t.Errorf("context metadata IP = %s, want 192.0.2.10", fromCtx)
	}
}
