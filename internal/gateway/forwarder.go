package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sharekit-app/sharekit-backend/api/responses"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
)

// Forwarder relays validated requests to the server tier byte for byte.
// The gateway never rewrites server responses: status, headers, and body
// pass through untouched.
type Forwarder struct {
	base   *url.URL
	client *http.Client
	logg   *logger.Logger
}

// NewForwarder builds a forwarder for the given server base URL.
func NewForwarder(serverURL string, timeout time.Duration, logg *logger.Logger) (*Forwarder, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", serverURL)
	}
	return &Forwarder{
		base:   base,
		client: &http.Client{Timeout: timeout},
		logg:   logg,
	}, nil
}

// Forward relays the request as-is, streaming the original body.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request) {
	f.relay(w, r, r.Body)
}

// ForwardBytes relays the request with an already-consumed body. Handlers
// that had to read the body for validation pass the captured bytes here.
func (f *Forwarder) ForwardBytes(w http.ResponseWriter, r *http.Request, body []byte) {
	f.relay(w, r, io.NopCloser(bytes.NewReader(body)))
}

func (f *Forwarder) relay(w http.ResponseWriter, r *http.Request, body io.Reader) {
	ctx := r.Context()

	target := *f.base
	target.Path = singleJoin(f.base.Path, r.URL.Path)
	target.RawQuery = r.URL.RawQuery

	upstream, err := http.NewRequestWithContext(ctx, r.Method, target.String(), body)
	if err != nil {
		f.fail(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request"))
		return
	}
	copyHeaders(upstream.Header, r.Header)

	resp, err := f.client.Do(upstream)
	if err != nil {
		f.fail(w, r, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reach server"))
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil && f.logg != nil {
		f.logg.Warn(ctx, "gateway.relay.copy_body_failed")
	}
}

func (f *Forwarder) fail(w http.ResponseWriter, r *http.Request, err error) {
	responses.WriteError(r.Context(), f.logg, w, err)
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		dst.Del(key)
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

func singleJoin(base, path string) string {
	switch {
	case base == "" || base == "/":
		return path
	case strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/"):
		return base + path[1:]
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(path, "/"):
		return base + "/" + path
	default:
		return base + path
	}
}
