package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Identity headers are set by the authenticating proxy in front of the
// services. The services trust them as-is.
const (
	HeaderCustomerID = "X-Customer-Id"
	HeaderStaffID    = "X-Staff-Id"
)

type ctxKey int

const (
	customerIDKey ctxKey = iota
	staffIDKey
)

// CustomerIDFromContext returns the authenticated customer id, if any.
func CustomerIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(customerIDKey).(int64)
	return v, ok
}

// StaffIDFromContext returns the acting staff id, if any.
func StaffIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(staffIDKey).(int64)
	return v, ok
}

// RequireCustomer rejects requests without a valid X-Customer-Id.
func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r.Header.Get(HeaderCustomerID))
		if !ok {
			writeUnauthorized(w, "missing or invalid "+HeaderCustomerID)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), customerIDKey, id)))
	})
}

// OptionalStaff attaches X-Staff-Id when present. A malformed value is rejected.
func OptionalStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderStaffID))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, ok := parseID(raw)
		if !ok {
			writeUnauthorized(w, "invalid "+HeaderStaffID)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), staffIDKey, id)))
	})
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated","message":"` + msg + `"}`))
}
