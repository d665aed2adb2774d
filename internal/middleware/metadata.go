package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
)

type contextKey string

const MetadataKey contextKey = "request_metadata"

// AnnotateMetadata taruh user agent + IP client di context;
// identity service hanya dikonsumsi sebatas anotasi metadata ini.
func AnnotateMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		md := &domain.RequestMetadata{
			UserAgent: r.UserAgent(),
			IPAddress: clientIP(r),
		}
		ctx := context.WithValue(r.Context(), MetadataKey, md)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MetadataFromRequest ambil metadata dari context kalau middleware terpasang,
// kalau tidak ya bangun langsung dari request.
func MetadataFromRequest(r *http.Request) *domain.RequestMetadata {
	if md, ok := r.Context().Value(MetadataKey).(*domain.RequestMetadata); ok {
		return md
	}
	return &domain.RequestMetadata{
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	}
}

// clientIP respects proxy headers before falling back to RemoteAddr
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return strings.TrimSpace(rip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
