package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sharekit-app/sharekit-backend/api/responses"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
)

// HeaderUserID carries the caller identity on every authenticated route.
const HeaderUserID = "X-Sharer-User-Id"

// Identity requires the X-Sharer-User-Id header and seeds the request
// context with the parsed caller id. The header is trusted: the gateway is
// the only expected client of the server tier.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Sharer-User-Id header is required"))
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Sharer-User-Id header is invalid"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
