package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Request body caps. JSON bodies are small; multipart proof uploads get
// their own, larger limit so file submissions are not cut off by the
// JSON cap.
const (
	defaultMaxBodyBytes   = 1 << 20  // MAX_BODY_BYTES
	defaultMaxUploadBytes = 32 << 20 // MAX_UPLOAD_BYTES
)

func bodyLimit(env string, fallback int64) int64 {
	if s := os.Getenv(env); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// MaxBodyMiddleware wraps every request body in a MaxBytesReader.
func MaxBodyMiddleware(next http.Handler) http.Handler {
	maxBody := bodyLimit("MAX_BODY_BYTES", defaultMaxBodyBytes)
	maxUpload := bodyLimit("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := maxBody
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			limit = maxUpload
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
