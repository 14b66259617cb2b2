package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the GUID that keys a waiting request everywhere
// downstream: pending queue, callback table, state updates.
const RequestIDHeader = "x-request-id"

// requestIDMiddleware injects a time-ordered UUIDv7 x-request-id header
// when the client did not send one, and mirrors it into the request
// context so log lines can carry it. A header the client did send is left
// untouched, valid or not; handlers that need a GUID validate it.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				// crypto/rand failure; fall back to v4.
				v7 = uuid.New()
			}
			id = v7.String()
			r.Header.Set(RequestIDHeader, id)
		}
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
