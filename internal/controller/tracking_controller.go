// internal/controller/tracking_controller.go
package controller

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/coursemail-backend/internal/service"
)

// 1x1 transparent GIF served to every open-tracking request.
var trackingPixel, _ = base64.StdEncoding.DecodeString(
	"R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

// TrackingController serves the endpoints embedded into outgoing email
// bodies. These are hit by mail clients, not API consumers, so every
// response degrades gracefully: the pixel is always served and clicks
// always redirect, whatever the recording outcome.
type TrackingController struct {
	Tracking *service.TrackingService
	Service  *service.EmailService
}

func NewTrackingController(tracking *service.TrackingService, svc *service.EmailService) *TrackingController {
	return &TrackingController{Tracking: tracking, Service: svc}
}

// OpenHandler records the first open for a delivery and serves the pixel.
func (c *TrackingController) OpenHandler(w http.ResponseWriter, r *http.Request) {
	deliveryID := chi.URLParam(r, "id")

	if err := c.Tracking.RecordOpen(deliveryID); err != nil {
		log.Println("⚠️ failed to record open for", deliveryID, ":", err)
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Content-Length", fmt.Sprint(len(trackingPixel)))
	w.Write(trackingPixel)
}

// ClickHandler records the first click for a delivery and redirects to
// the original destination.
func (c *TrackingController) ClickHandler(w http.ResponseWriter, r *http.Request) {
	deliveryID := chi.URLParam(r, "id")
	target := r.URL.Query().Get("url")
	if target == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	if err := c.Tracking.RecordClick(deliveryID, target); err != nil {
		log.Println("⚠️ failed to record click for", deliveryID, ":", err)
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// UnsubscribeHandler is the browser-facing unsubscribe landing. The link
// in the email footer points here with email and token query params.
func (c *TrackingController) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")

	if email == "" || !c.Service.VerifyUnsubscribeToken(email, token) {
		http.Error(w, "invalid or expired unsubscribe link", http.StatusForbidden)
		return
	}

	if _, err := c.Service.UpdatePreference(email, true); err != nil {
		http.Error(w, "failed to update preference", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body><p>%s has been unsubscribed from email notifications.</p></body></html>", email)
}
