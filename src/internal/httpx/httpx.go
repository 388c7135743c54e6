package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserAgent identifies every outbound request made by the importer.
const UserAgent = "deposit-import/1.0 (+https://inspirehep.net)"

// DefaultTimeout bounds a single lookup when no client is injected.
const DefaultTimeout = 10 * time.Second

// NewClient returns an http.Client with the given timeout (DefaultTimeout when <= 0).
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// SetUA sets the UserAgent header on the request.
func SetUA(req *http.Request) {
	if req != nil {
		req.Header.Set("User-Agent", UserAgent)
	}
}

// SetJSON asks the remote end for a JSON body.
func SetJSON(req *http.Request) {
	if req != nil {
		req.Header.Set("Accept", "application/json")
	}
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool { return code >= 200 && code < 300 }

// StatusText returns the reason phrase of resp: "Not Found" for "404 Not Found".
// It falls back to the canonical text for the code when Status is empty.
func StatusText(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if s := strings.TrimSpace(strings.TrimPrefix(resp.Status, prefix)); s != "" && s != strings.TrimSpace(prefix) {
		return s
	}
	return http.StatusText(resp.StatusCode)
}
