package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/middleware"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

// Mounter registers a group of routes on a router.
type Mounter interface {
	Mount(r chi.Router)
}

// ResourceHandler exposes one Kind's service as GET and POST /api/<route>
// and DELETE /api/<route>/{id}.
type ResourceHandler[T any] struct {
	service ports.ResourceService[T]
	callers middleware.CallerResolver
	route   Route
	log     *zap.Logger
}

func NewResourceHandler[T any](service ports.ResourceService[T], callers middleware.CallerResolver, log *zap.Logger) (*ResourceHandler[T], error) {
	route, ok := RouteFor(service.Kind())
	if !ok {
		return nil, fmt.Errorf("no route for kind %q", service.Kind())
	}
	return &ResourceHandler[T]{
		service: service,
		callers: callers,
		route:   route,
		log:     log.With(zap.String("kind", string(service.Kind()))),
	}, nil
}

func (h *ResourceHandler[T]) Mount(r chi.Router) {
	r.Route("/api/"+h.route.Path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}
	writeJSON(w, h.log, http.StatusOK, records)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}

	caller, err := h.callers.Resolve(r, fields)
	if err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}

	rec, err := h.service.Create(r.Context(), fields, caller)
	if err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, rec)
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}

	caller, err := h.callers.Resolve(r, fields)
	if err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), caller); err != nil {
		writeError(w, h.log, err, h.route.Noun)
		return
	}
	writeJSON(w, h.log, http.StatusOK, DeleteResponse{
		Success: true,
		Message: h.route.Noun + " deleted successfully",
	})
}
