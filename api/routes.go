package api

import (
	"net/http"
	"time"

	"github.com/staffroomhq/staffroom-api/app/provisioning"
	"github.com/staffroomhq/staffroom-api/config"
	"github.com/staffroomhq/staffroom-api/internal/metrics"
	"github.com/staffroomhq/staffroom-api/internal/middleware"
	"github.com/staffroomhq/staffroom-api/internal/monitor"
	"github.com/staffroomhq/staffroom-api/internal/status"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

var logger = monitor.NewModuleLogger("api")

// corsAllowedHeaders is the allow-list of headers a browser client may send.
var corsAllowedHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"}

// emptyHandler can be used when you just need to let middlewares do their job and no actual response is needed.
func emptyHandler(_ http.ResponseWriter, _ *http.Request) {}

// InstallRoutes sets up global API handlers
func InstallRoutes(r *mux.Router, accounts *provisioning.Handler) {
	r.Use(methodTimer)

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("staffroom accounts api"))
	})
	r.HandleFunc("", emptyHandler)

	v1Router := r.PathPrefix("/api/v1").Subrouter()
	v1Router.Use(defaultMiddlewares())

	v1Router.HandleFunc("/accounts", accounts.CreateAccount).Methods(http.MethodPost)
	v1Router.HandleFunc("/accounts", emptyHandler).Methods(http.MethodOptions)

	v1Router.HandleFunc("/status", status.GetStatus).Methods(http.MethodGet)
	v1Router.HandleFunc("/status", emptyHandler).Methods(http.MethodOptions)

	internalRouter := r.PathPrefix("/internal").Subrouter()
	internalRouter.Handle("/metrics", promhttp.Handler())
}

func defaultMiddlewares() mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: config.GetCORSDomains(),
		AllowedHeaders: corsAllowedHeaders,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		// preflights fall through to the explicit OPTIONS routes, which answer 200
		OptionsPassthrough: true,
		MaxAge:             600,
	})
	logger.Log().Infof("added CORS domains: %v", config.GetCORSDomains())

	return middleware.Chain(
		c.Handler,
		monitor.RequestLoggingMiddleware,
	)
}

func methodTimer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		metrics.CallDurations.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
