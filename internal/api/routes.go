// Package api serves tide lookups as JSON over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/ngmaloney/nz-tides/internal/logging"
	"github.com/ngmaloney/nz-tides/internal/metrics"
	"github.com/ngmaloney/nz-tides/internal/models"
	"github.com/ngmaloney/nz-tides/internal/tides"
)

const (
	dateLayout    = "2006-01-02"
	instantLayout = "2006-01-02T15:04"
)

var validate = validator.New()

// Resolver is the subset of *tides.Resolver the API needs
type Resolver interface {
	GetTidesForDate(ctx context.Context, port models.Port, date time.Time) ([]models.TideEvent, error)
	After(ctx context.Context, port models.Port, t time.Time) (models.TideEvent, error)
	Before(ctx context.Context, port models.Port, t time.Time) (models.TideEvent, error)
	NextOfType(ctx context.Context, e models.TideEvent, typ models.TideType) (models.TideEvent, error)
	PreviousOfType(ctx context.Context, e models.TideEvent, typ models.TideType) (models.TideEvent, error)
}

type handler struct {
	resolver Resolver
	loc      *time.Location
	logger   *log.Logger
	now      func() time.Time
}

// Register wires the tide API, health check and metrics endpoints into r.
// Times without a zone are interpreted in loc.
func Register(r *mux.Router, resolver Resolver, loc *time.Location, logger *log.Logger) {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &handler{resolver: resolver, loc: loc, logger: logger, now: time.Now}

	r.Use(metrics.LatencyHandler)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/ports", h.listPorts).Methods(http.MethodGet)
	v1.HandleFunc("/ports/{port}/tides", h.dayTides).Methods(http.MethodGet)
	v1.HandleFunc("/ports/{port}/tides/next", h.step(true)).Methods(http.MethodGet)
	v1.HandleFunc("/ports/{port}/tides/previous", h.step(false)).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
}

type portResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

func (h *handler) listPorts(w http.ResponseWriter, r *http.Request) {
	var ports []portResponse
	for _, p := range models.AllPorts() {
		resp := portResponse{ID: p.ID(), Name: p.Name()}
		if c, ok := p.Coordinates(); ok {
			resp.Latitude = c.Latitude
			resp.Longitude = c.Longitude
		}
		ports = append(ports, resp)
	}
	h.writeJSON(w, http.StatusOK, ports)
}

// dayQuery holds the query parameters of the day endpoint.
type dayQuery struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

type dayResponse struct {
	Port  models.Port        `json:"port"`
	Name  string             `json:"name"`
	Date  string             `json:"date"`
	Tides []models.TideEvent `json:"tides"`
}

func (h *handler) dayTides(w http.ResponseWriter, r *http.Request) {
	port, err := models.ParsePort(mux.Vars(r)["port"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := dayQuery{Date: r.FormValue("date")}
	if err := validate.Struct(q); err != nil {
		h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	date := h.now().In(h.loc)
	if q.Date != "" {
		date, _ = time.ParseInLocation(dateLayout, q.Date, h.loc)
	}

	events, err := h.resolver.GetTidesForDate(r.Context(), port, date)
	if err != nil {
		h.lookupFailed(w, "day", err)
		return
	}
	metrics.ObserveLookup("day", metrics.ResultOK)

	h.writeJSON(w, http.StatusOK, dayResponse{
		Port:  port,
		Name:  port.Name(),
		Date:  date.Format(dateLayout),
		Tides: events,
	})
}

// stepQuery holds the query parameters of the next and previous endpoints.
type stepQuery struct {
	At   string `validate:"omitempty,datetime=2006-01-02T15:04"`
	Type string `validate:"omitempty,oneof=high low"`
}

func (h *handler) step(forward bool) http.HandlerFunc {
	op := "previous"
	if forward {
		op = "next"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		port, err := models.ParsePort(mux.Vars(r)["port"])
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		q := stepQuery{At: r.FormValue("at"), Type: r.FormValue("type")}
		if err := validate.Struct(q); err != nil {
			h.writeError(w, http.StatusBadRequest, "at must be YYYY-MM-DDTHH:MM and type high or low")
			return
		}

		at := h.now().In(h.loc)
		if q.At != "" {
			at, _ = time.ParseInLocation(instantLayout, q.At, h.loc)
		}

		ctx := r.Context()
		var event models.TideEvent
		if forward {
			event, err = h.resolver.After(ctx, port, at)
		} else {
			event, err = h.resolver.Before(ctx, port, at)
		}
		if err == nil && q.Type != "" {
			want := models.TideLow
			if q.Type == "high" {
				want = models.TideHigh
			}
			if event.Type != want {
				if forward {
					event, err = h.resolver.NextOfType(ctx, event, want)
				} else {
					event, err = h.resolver.PreviousOfType(ctx, event, want)
				}
			}
		}
		if err != nil {
			h.lookupFailed(w, op, err)
			return
		}
		metrics.ObserveLookup(op, metrics.ResultOK)

		h.writeJSON(w, http.StatusOK, event)
	}
}

func (h *handler) lookupFailed(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, tides.ErrPortDataNotFound):
		metrics.ObserveLookup(op, metrics.ResultNotFound)
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tides.ErrFormatMismatch):
		metrics.ObserveLookup(op, metrics.ResultFormatError)
		h.logger.Error("malformed tide data", "op", op, "err", err)
		h.writeError(w, http.StatusInternalServerError, "malformed tide data")
	default:
		metrics.ObserveLookup(op, metrics.ResultError)
		h.logger.Error("tide lookup failed", "op", op, "err", err)
		h.writeError(w, http.StatusInternalServerError, "tide lookup failed")
	}
}

// writeJSON encodes v before writing the header, so an unencodable value
// becomes a 500 rather than an empty 200.
func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encoding response", "err", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encoding response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Debug("writing response", "err", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
