// Package gateway provides read-only HTTP access to the Authority registry
// deployed on the chain.
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nspcc-dev/authority-contract/registry"
	"github.com/nspcc-dev/authority-contract/rpc/authority"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Reader provides safe methods of the Authority contract.
// [authority.ContractReader] implements Reader.
type Reader interface {
	ListAuthorityIDs(limit int) (ids []string, truncated bool, err error)
	GetAuthority(id string) (*authority.Authority, error)
	IsAuthorityActive(id string) (bool, error)
	Owner() (util.Uint160, error)
}

// Server serves the registry over HTTP.
type Server struct {
	log     *zap.Logger
	reader  Reader
	metrics *Metrics
	limit   int
}

// New returns Server reading the registry through r. limit bounds the number
// of listed authorities, non-positive value means default contract reader
// limit.
func New(log *zap.Logger, r Reader, m *Metrics, limit int) *Server {
	return &Server{
		log:     log,
		reader:  r,
		metrics: m,
		limit:   limit,
	}
}

// authorityResponse is a JSON-encoded authority record.
type authorityResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Website   string `json:"website"`
	Active    bool   `json:"active"`
	CreatedAt uint32 `json:"createdAt"`
	UpdatedAt uint32 `json:"updatedAt"`
}

type activeResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

type listResponse struct {
	Authorities []string `json:"authorities"`
	// Set when the registry holds more authorities than listed.
	Truncated bool `json:"truncated"`
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

type errorResponse struct {
	Code    registry.Code `json:"code"`
	Error   string        `json:"error"`
	Message string        `json:"message"`
}

// Router returns HTTP handler of the gateway. Prometheus metrics from g are
// served at /metrics.
func (s *Server) Router(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/authorities", s.listAuthorities)
	r.Get("/authorities/{id}", s.getAuthority)
	r.Get("/authorities/{id}/active", s.isAuthorityActive)
	r.Get("/owner", s.owner)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unknown"
		}

		s.metrics.ObserveRequest(route, strconv.Itoa(ww.Status()), start)
		s.log.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) listAuthorities(w http.ResponseWriter, r *http.Request) {
	ids, truncated, err := s.reader.ListAuthorityIDs(s.limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if truncated {
		s.log.Warn("authority list is truncated, increase the list limit",
			zap.Int("listed", len(ids)))
	}

	slices.Sort(ids)

	if ids == nil {
		ids = []string{}
	}

	s.writeJSON(w, http.StatusOK, listResponse{Authorities: ids, Truncated: truncated})
}

func (s *Server) getAuthority(w http.ResponseWriter, r *http.Request) {
	a, err := s.reader.GetAuthority(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if a == nil {
		s.writeJSON(w, http.StatusOK, nil)
		return
	}

	rec, err := a.ToRecord()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, authorityResponse{
		ID:        a.ID,
		Name:      rec.Name,
		Website:   rec.Website,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	})
}

func (s *Server) isAuthorityActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	active, err := s.reader.IsAuthorityActive(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, activeResponse{ID: id, Active: active})
}

func (s *Server) owner(w http.ResponseWriter, r *http.Request) {
	owner, err := s.reader.Owner()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ownerResponse{Owner: address.Uint160ToString(owner)})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var regErr *registry.Error
	if errors.As(err, &regErr) {
		status := http.StatusBadRequest
		switch regErr.Code {
		case registry.CodeNotFound:
			status = http.StatusNotFound
		case registry.CodeAlreadyExists:
			status = http.StatusConflict
		case registry.CodeUnauthorized:
			status = http.StatusForbidden
		}

		s.writeJSON(w, status, errorResponse{
			Code:    regErr.Code,
			Error:   regErr.Code.String(),
			Message: regErr.Error(),
		})
		return
	}

	s.metrics.IncrementChainErrors()
	s.log.Error("contract call failed", zap.String("path", r.URL.Path), zap.Error(err))

	s.writeJSON(w, http.StatusBadGateway, errorResponse{
		Error:   "CHAIN_ERROR",
		Message: "failed to read the registry from the chain",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.log.Warn("failed to write response", zap.Error(err))
	}
}
