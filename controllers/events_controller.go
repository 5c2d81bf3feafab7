package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/userctx"
)

// heartbeatInterval keeps idle proxies from closing the stream
var heartbeatInterval = 25 * time.Second

// EventsController streams the change feed to browsers
type EventsController struct {
	broker *events.Broker
}

// NewEventsController creates a new events controller. broker may be nil.
func NewEventsController(broker *events.Broker) *EventsController {
	return &EventsController{broker: broker}
}

// Stream handles GET /events as Server-Sent Events
func (c *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	if c.broker == nil {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	identity := userctx.GetIdentity(r.Context())
	feed, cancel := c.broker.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event, ok := <-feed:
			if !ok {
				return
			}
			if !visibleTo(identity, event) {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("Failed to encode change event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// visibleTo hides other employees' activity from non-admins
func visibleTo(identity *models.Identity, event models.ChangeEvent) bool {
	if identity.IsAdmin() {
		return true
	}
	switch record := event.Record.(type) {
	case models.TimeLog:
		return identity != nil && record.EmployeeID == identity.EmployeeID
	case models.Employee:
		return identity != nil && record.ID == identity.EmployeeID
	case map[string]string:
		return identity != nil && record["id"] == identity.EmployeeID
	default:
		return false
	}
}
