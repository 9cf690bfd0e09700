// Package server exposes the commute planner over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/estimate"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/planner"
	"github.com/danpilch/niklo/internal/timetable"
	"github.com/danpilch/niklo/internal/travel"
)

const (
	defaultTrainLimit = 5
	maxTrainLimit     = 500
)

type Planner interface {
	Plan(ctx context.Context, origin string, arrival clock.Clock, bufferMins int) (*planner.CommutePlan, error)
}

type Options struct {
	Planner     Planner
	Provider    travel.Provider
	Schedule    *timetable.Schedule
	Estimator   *estimate.Estimator
	Notifier    *notify.Notifier
	Location    *time.Location
	CORSOrigins []string
	Logger      *logrus.Logger
	Now         func() time.Time
}

type Server struct {
	opts Options
}

func New(opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{opts: opts}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(s.opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/commute", s.commute)
		r.Post("/traffic", s.traffic)
		r.Get("/trains", s.trains)
		r.Post("/predict", s.predict)
		r.Post("/trips", s.learnTrip)
		r.Post("/notify", s.notify)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy", "service": "niklo"})
}

func (s *Server) commute(w http.ResponseWriter, r *http.Request) {
	var req CommuteRequest
	if !s.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.ArrivalTime) == "" {
		s.writeError(w, r, http.StatusBadRequest, "origin and arrival_time are required")
		return
	}
	arrival, err := clock.Parse(req.ArrivalTime)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "arrival_time must be HH:MM format")
		return
	}
	if req.DelayBufferMins < 0 {
		s.writeError(w, r, http.StatusBadRequest, "delay_buffer_mins must not be negative")
		return
	}

	plan, err := s.opts.Planner.Plan(r.Context(), req.Origin, arrival, req.DelayBufferMins)
	if err != nil {
		var pe *planner.TravelProviderError
		switch {
		case errors.As(err, &pe):
			s.writeError(w, r, http.StatusBadGateway, err.Error())
		case errors.Is(err, planner.ErrEmptyOrigin), errors.Is(err, planner.ErrNegativeBuffer):
			s.writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			s.opts.Logger.WithField("error", err).Error("planning commute failed")
			s.writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.writeJSON(w, r, http.StatusOK, NewCommuteResponse(plan))
}

func (s *Server) traffic(w http.ResponseWriter, r *http.Request) {
	var req TrafficRequest
	if !s.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		s.writeError(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}

	res, err := s.opts.Provider.TravelTime(r.Context(), req.Origin, req.Destination)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) trains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := timetable.Station(strings.TrimSpace(q.Get("from")))
	to := timetable.Station(strings.TrimSpace(q.Get("to")))
	if from == "" || to == "" {
		s.writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	now := s.opts.Now().In(s.opts.Location)
	after := now
	if v := q.Get("after"); v != "" {
		c, err := clock.Parse(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "after must be HH:MM format")
			return
		}
		after = c.On(now)
	}

	limit := defaultTrainLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTrainLimit {
			s.writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	tt, err := s.opts.Schedule.For(now)
	if err != nil {
		s.opts.Logger.WithField("error", err).Error("loading timetable failed")
		s.writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	dir, err := tt.Direction(from, to)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	deps, err := tt.FindTrains(from, to, after, limit)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	res := TrainsResponse{From: from, To: to, Direction: dir, Trains: make([]DepartureResponse, 0, len(deps))}
	for _, d := range deps {
		res.Trains = append(res.Trains, departureResponse(d))
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Time == "" || req.DayOfWeek == nil {
		s.writeError(w, r, http.StatusBadRequest, "time and day_of_week are required")
		return
	}
	c, err := clock.Parse(req.Time)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "time must be HH:MM format")
		return
	}
	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		s.writeError(w, r, http.StatusBadRequest, "day_of_week must be between 0 and 6")
		return
	}

	var res PredictResponse
	if v, ok := s.opts.Estimator.Predict(c.Hour, c.Minute, *req.DayOfWeek); ok {
		res.PredictedDurationMins = &v
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) learnTrip(w http.ResponseWriter, r *http.Request) {
	var req TripRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.DepartureTime == "" || req.DayOfWeek == nil {
		s.writeError(w, r, http.StatusBadRequest, "departure_time, day_of_week and duration_mins are required")
		return
	}
	c, err := clock.Parse(req.DepartureTime)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "departure_time must be HH:MM format")
		return
	}
	if err := s.opts.Estimator.Learn(c, *req.DayOfWeek, req.DurationMins); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, r, http.StatusCreated, map[string]bool{"trained": s.opts.Estimator.Trained()})
}

func (s *Server) notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Token == "" || req.Title == "" || req.Body == "" {
		s.writeError(w, r, http.StatusBadRequest, "token, title, and body are required")
		return
	}

	id, err := s.opts.Notifier.Send(r.Context(), req.Token, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, notify.ErrDisabled) {
			s.writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, NotifyResponse{Success: true, MessageID: id})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		s.writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.opts.Logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"error":  err,
		}).Error("encoding response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}
