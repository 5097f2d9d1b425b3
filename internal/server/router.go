package server

import (
	"net/http"
	"time"

	"brewline/internal/feed"
	"brewline/internal/menu"
	ordercontroller "brewline/internal/order/controller"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(
	orderCtrl *ordercontroller.Controller,
	menuCtrl *menu.Controller,
	hub *feed.Hub,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orderCtrl.ListOrders)
		r.Post("/", orderCtrl.SubmitOrder)
		r.Post("/{orderId}/status", orderCtrl.RequestTransition)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", menuCtrl.HandleList)
		r.Post("/", menuCtrl.HandleCreate)
		r.Put("/{itemId}", menuCtrl.HandleUpdate)
		r.Delete("/{itemId}", menuCtrl.HandleDelete)
	})

	// The change feed: full snapshots pushed on connect and after every
	// mutation.
	r.Get("/ws/orders", hub.HandleFeed)

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
