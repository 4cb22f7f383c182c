package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sharekit-app/sharekit-backend/api/responses"
)

type upstreamCall struct {
	method string
	path   string
	query  string
	body   string
	header http.Header
}

func newUpstream(t *testing.T) (*httptest.Server, *[]upstreamCall) {
	t.Helper()
	var calls []upstreamCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, upstreamCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
			header: r.Header.Clone(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTestForwarder(t *testing.T, upstream *httptest.Server) *Forwarder {
	t.Helper()
	f, err := NewForwarder(upstream.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("new forwarder: %v", err)
	}
	return f
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body responses.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestForwarderRelaysVerbatim(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/bookings/7?approved=true", nil)
	req.Header.Set("X-Sharer-User-Id", "42")
	rec := httptest.NewRecorder()
	Forward(f)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"ok":true}` {
		t.Fatalf("expected upstream body passed through, got %q", rec.Body.String())
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(*calls))
	}
	call := (*calls)[0]
	if call.path != "/bookings/7" || call.query != "approved=true" {
		t.Fatalf("unexpected upstream target %s?%s", call.path, call.query)
	}
	if call.header.Get("X-Sharer-User-Id") != "42" {
		t.Fatal("expected sharer header relayed")
	}
}

func TestUserCreateValidation(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing name", `{"email":"ann@example.com"}`, "Bad name for user!"},
		{"blank name", `{"name":"  ","email":"ann@example.com"}`, "Bad name for user!"},
		{"missing email", `{"name":"Ann"}`, "Email is null!"},
		{"bad email", `{"name":"Ann","email":"nope"}`, "email must be a valid email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			UserCreate(f, nil)(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := errorMessage(t, rec); got != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, got)
			}
		})
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no upstream calls, got %d", len(*calls))
	}
}

func TestUserCreateForwardsOriginalBytes(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	body := `{"name":"Ann","email":"ann@example.com","extra":1}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	UserCreate(f, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if (*calls)[0].body != body {
		t.Fatalf("expected body relayed verbatim, got %q", (*calls)[0].body)
	}
}

func TestItemCreateValidationOrder(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	cases := []struct {
		body    string
		message string
	}{
		{`{"description":"d","available":true}`, "Name is null!"},
		{`{"name":" ","description":"d","available":true}`, "Name is empty!"},
		{`{"name":"Drill","description":"d"}`, "Available is null!"},
		{`{"name":"Drill","available":true}`, "Description is null!"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		ItemCreate(f, nil)(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", tc.body, rec.Code)
		}
		if got := errorMessage(t, rec); got != tc.message {
			t.Fatalf("body %s: expected %q, got %q", tc.body, tc.message, got)
		}
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no upstream calls, got %d", len(*calls))
	}
}

func TestItemAddCommentBlankText(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	for _, body := range []string{`{}`, `{"text":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/items/5/comment", strings.NewReader(body))
		rec := httptest.NewRecorder()
		ItemAddComment(f, nil)(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if got := errorMessage(t, rec); got != "Text of comment is empty!" {
			t.Fatalf("unexpected message %q", got)
		}
	}
	if len(*calls) != 0 {
		t.Fatal("expected no upstream calls")
	}
}

func TestBookingCreateRequiresFields(t *testing.T) {
	upstream, _ := newUpstream(t)
	f := newTestForwarder(t, upstream)

	cases := []struct {
		body    string
		message string
	}{
		{`{"start":"2030-01-01T10:00:00Z","end":"2030-01-02T10:00:00Z"}`, "ItemId is null!"},
		{`{"itemId":5,"end":"2030-01-02T10:00:00Z"}`, "Start is null!"},
		{`{"itemId":5,"start":"2030-01-01T10:00:00Z"}`, "End is null!"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		BookingCreate(f, nil)(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", tc.body, rec.Code)
		}
		if got := errorMessage(t, rec); got != tc.message {
			t.Fatalf("unexpected message %q", got)
		}
	}
}

func TestPagedForwardAppliesDefaults(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	PagedForward(f, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	query := (*calls)[0].query
	if !strings.Contains(query, "from=0") || !strings.Contains(query, "size=10") {
		t.Fatalf("expected defaults applied, got %q", query)
	}
}

func TestPagedForwardRejectsBadWindow(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	for _, target := range []string{"/items?from=-1", "/items?size=0", "/items?from=x"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		PagedForward(f, nil)(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
	if len(*calls) != 0 {
		t.Fatal("expected no upstream calls")
	}
}

func TestBookingListForwardDefaultsState(t *testing.T) {
	upstream, calls := newUpstream(t)
	f := newTestForwarder(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	rec := httptest.NewRecorder()
	BookingListForward(f, nil)(rec, req)

	query := (*calls)[0].query
	if !strings.Contains(query, "state=ALL") {
		t.Fatalf("expected state default, got %q", query)
	}
	if strings.Contains(query, "from=") || strings.Contains(query, "size=") {
		t.Fatalf("expected window left absent, got %q", query)
	}
}

func TestRateLimiterThrottles(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, nil)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("X-Sharer-User-Id", "42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("X-Sharer-User-Id", "42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// a different caller is unaffected
	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("X-Sharer-User-Id", "7")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for other caller, got %d", rec.Code)
	}
}
