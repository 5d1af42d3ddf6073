package webhook

import (
	"bytes"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a callback body the middleware will buffer.
const maxBodyBytes = 32 << 20 // 32 MiB

// Middleware returns HTTP middleware that rejects requests whose body does not
// carry a valid signature for secret. Verified requests are passed through with
// the body replaced by an identical, re-readable copy.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				http.Error(w, "unreadable body", http.StatusBadRequest)
				return
			}
			if closeErr := r.Body.Close(); closeErr != nil {
				http.Error(w, "unreadable body", http.StatusBadRequest)
				return
			}

			if !Verify(body, r.Header.Get(SignatureHeader), secret) {
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
