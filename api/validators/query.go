package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/pagination"
)

// ParseOptionalQueryInt returns nil when the parameter is absent.
func ParseOptionalQueryInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "query parameter %s must be numeric", key)
	}
	return &value, nil
}

// ParseRange reads the from/size window off the query string.
func ParseRange(r *http.Request) (pagination.Range, error) {
	from, err := ParseOptionalQueryInt(r, "from")
	if err != nil {
		return pagination.Range{}, err
	}
	size, err := ParseOptionalQueryInt(r, "size")
	if err != nil {
		return pagination.Range{}, err
	}
	return pagination.Of(from, size), nil
}

// ParseQueryBool reads a required boolean query parameter.
func ParseQueryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, pkgerrors.Newf(pkgerrors.CodeValidation, "query parameter %s is required", key)
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.Newf(pkgerrors.CodeValidation, "query parameter %s must be a boolean", key)
	}
	return value, nil
}

// PathID reads a positive numeric id from the route.
func PathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid %s", param)
	}
	return id, nil
}
