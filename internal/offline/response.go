package offline

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

var staticDestinations = map[string]bool{
	"image":  true,
	"style":  true,
	"script": true,
	"font":   true,
}

var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
	".css": true, ".js": true, ".mjs": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
}

func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func isStaticAsset(r *http.Request, target *url.URL) bool {
	if dest := r.Header.Get("Sec-Fetch-Dest"); dest != "" && dest != "empty" {
		return staticDestinations[dest]
	}
	return staticExtensions[strings.ToLower(path.Ext(target.Path))]
}

func cacheable(status int) bool {
	return status >= 200 && status < 300 && status != http.StatusPartialContent
}

// snapshot drains a network response into an Entry and closes it.
func snapshot(resp *http.Response, now time.Time) (*Entry, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: now,
	}, nil
}

// response builds a fresh http.Response reading from a copy of the entry.
func (e *Entry) response(r *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Del("Content-Length")
	return &http.Response{
		Status:        strconv.Itoa(e.Status) + " " + http.StatusText(e.Status),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       r,
	}
}

type offlineBody struct {
	Error   string `json:"error"`
	Offline bool   `json:"offline"`
	Message string `json:"message"`
}

// offlineResponse is the structured 503 returned for remote-data calls that
// could not reach the network.
func offlineResponse(r *http.Request, message string) *http.Response {
	body, _ := json.Marshal(offlineBody{
		Error:   "Network unavailable",
		Offline: true,
		Message: message,
	})
	e := &Entry{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	}
	return e.response(r)
}

func textResponse(r *http.Request, status int, text string) *http.Response {
	e := &Entry{
		Status: status,
		Header: http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:   []byte(text),
	}
	return e.response(r)
}

// unavailableResponse stands in for "no response at all" when both network
// and cache came up empty.
func unavailableResponse(r *http.Request) *http.Response {
	return textResponse(r, http.StatusGatewayTimeout, "Resource unavailable offline.")
}
