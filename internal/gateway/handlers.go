package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sharekit-app/sharekit-backend/api/responses"
	"github.com/sharekit-app/sharekit-backend/api/validators"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
)

// The gateway reads and validates each mutating payload before relaying
// the captured bytes, so the server receives exactly what the caller sent.

type userPayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type commentPayload struct {
	Text *string `json:"text"`
}

type requestPayload struct {
	Description *string `json:"description"`
}

type bookingPayload struct {
	ItemID *int64     `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

func readPayload(r *http.Request, dest any) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if err := validators.Struct(dest); err != nil {
		return nil, err
	}
	return body, nil
}

// UserCreate rejects users without a usable name or email before relaying.
func UserCreate(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload userPayload
		body, err := readPayload(r, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Name == nil || strings.TrimSpace(*payload.Name) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Bad name for user!"))
			return
		}
		if payload.Email == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Email is null!"))
			return
		}

		f.ForwardBytes(w, r, body)
	}
}

// UserUpdate validates the optional email format before relaying.
func UserUpdate(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload userPayload
		body, err := readPayload(r, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f.ForwardBytes(w, r, body)
	}
}

// ItemCreate enforces the historical null and blank checks on new items.
func ItemCreate(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemPayload
		body, err := readPayload(r, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Name == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Name is null!"))
			return
		}
		if strings.TrimSpace(*payload.Name) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Name is empty!"))
			return
		}
		if payload.Available == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Available is null!"))
			return
		}
		if payload.Description == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Description is null!"))
			return
		}

		f.ForwardBytes(w, r, body)
	}
}

// ItemAddComment rejects blank comments.
func ItemAddComment(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload commentPayload
		body, err := readPayload(r, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Text == nil || strings.TrimSpace(*payload.Text) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Text of comment is empty!"))
			return
		}

		f.ForwardBytes(w, r, body)
	}
}

// RequestCreate rejects requests without a description.
func RequestCreate(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload requestPayload
		body, err := readPayload(r, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Description == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Description is null!"))
			return
		}

		f.ForwardBytes(w, r, body)
	}
}

// BookingCreate requires the item id and both window bounds.
func BookingCreate(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bookingPayload
		body, err := readPayload(r, &payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.ItemID == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "ItemId is null!"))
			return
		}
		if payload.Start == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "Start is null!"))
			return
		}
		if payload.End == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "End is null!"))
			return
		}

		f.ForwardBytes(w, r, body)
	}
}

// PagedForward validates the from/size window, applies the historical 0/10
// defaults, and relays.
func PagedForward(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := normalizeRange(r, true); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f.Forward(w, r)
	}
}

// BookingListForward validates from/size when present, defaults the state
// token to ALL, and relays. The window stays absent when the caller sent
// none, which the server treats as an unpaginated listing.
func BookingListForward(f *Forwarder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := normalizeRange(r, false); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		if query.Get("state") == "" {
			query.Set("state", "ALL")
			r.URL.RawQuery = query.Encode()
		}
		f.Forward(w, r)
	}
}

// Forward relays without any local validation.
func Forward(f *Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.Forward(w, r)
	}
}

func normalizeRange(r *http.Request, applyDefaults bool) error {
	from, err := validators.ParseOptionalQueryInt(r, "from")
	if err != nil {
		return err
	}
	size, err := validators.ParseOptionalQueryInt(r, "size")
	if err != nil {
		return err
	}

	if from != nil && *from < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "from must not be negative")
	}
	if size != nil && *size <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "size must be positive")
	}

	if !applyDefaults {
		return nil
	}

	query := r.URL.Query()
	changed := false
	if from == nil {
		query.Set("from", "0")
		changed = true
	}
	if size == nil {
		query.Set("size", "10")
		changed = true
	}
	if changed {
		r.URL.RawQuery = query.Encode()
	}
	return nil
}
