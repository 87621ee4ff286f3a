package offline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/notifier"
)

// PushPayload is the body of a push event.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Push shows a notification built from the payload with the fixed open and
// dismiss actions.
func (c *Controller) Push(ctx context.Context, payload PushPayload) error {
	push := notifier.Push{
		Title:   payload.Title,
		Body:    payload.Body,
		URL:     c.origin.ResolveReference(&url.URL{Path: "/"}).String(),
		Actions: notifier.DefaultActions(),
	}
	if push.Title == "" {
		push.Title = "Touchline"
	}
	if push.Body == "" {
		push.Body = "You have a new notification."
	}
	log.Info("Push received", "title", push.Title)
	if c.notifier == nil {
		log.Debug("No notifier configured, dropping push", "title", push.Title)
		return nil
	}
	return c.notifier.SendPushNotification(push, false)
}

// NotificationClick returns where the app should be opened for an action.
// An empty target means nothing should be opened.
func (c *Controller) NotificationClick(action string) string {
	log.Info("Notification clicked", "action", action)
	switch action {
	case "", notifier.ActionOpen:
		return c.origin.ResolveReference(&url.URL{Path: "/"}).String()
	default:
		return ""
	}
}

// Sync handles a background sync event. Nothing is queued for replay.
func (c *Controller) Sync(ctx context.Context, tag string) error {
	log.Info("Background sync", "tag", tag)
	return nil
}

const eventPrefix = "/_sw/"

// ServeHTTP exposes the controller as a proxy. Origin-relative requests
// under /_sw/ are lifecycle side-channel events; everything else is fetched.
// Only the app origin and the remote-data provider are proxied.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !r.URL.IsAbs() && strings.HasPrefix(r.URL.Path, eventPrefix) {
		c.serveEvent(w, r)
		return
	}

	resp, err := c.Fetch(r.Context(), r)
	if errors.Is(err, ErrHostNotAllowed) {
		log.Warn("Refusing to proxy foreign host", "method", r.Method, "url", r.URL.String())
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		log.Error("Pass-through request failed", "error", err, "method", r.Method, "url", r.URL.String())
		http.Error(w, "Bad gateway", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Warn("Failed to copy response body", "error", err, "url", r.URL.String())
	}
}

func (c *Controller) serveEvent(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, eventPrefix) {
	case "push":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload PushPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
			http.Error(w, "Invalid push payload", http.StatusBadRequest)
			return
		}
		if err := c.Push(r.Context(), payload); err != nil {
			log.Error("Failed to deliver push notification", "error", err)
			http.Error(w, "Failed to deliver notification", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)

	case "notificationclick":
		target := c.NotificationClick(r.URL.Query().Get("action"))
		if target == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)

	case "sync":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := c.Sync(r.Context(), r.URL.Query().Get("tag")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "caches":
		names, err := c.CacheNames(r.Context())
		if err != nil {
			log.Error("Failed to list caches", "error", err)
			http.Error(w, "Failed to list caches", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"state":  c.State(),
			"caches": names,
		})

	default:
		http.NotFound(w, r)
	}
}
