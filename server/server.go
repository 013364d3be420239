package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffroomhq/staffroom-api/api"
	"github.com/staffroomhq/staffroom-api/app/provisioning"
	"github.com/staffroomhq/staffroom-api/config"
	"github.com/staffroomhq/staffroom-api/internal/monitor"
	"github.com/staffroomhq/staffroom-api/pkg/gotrue"
	"github.com/staffroomhq/staffroom-api/pkg/postgrest"
	"github.com/staffroomhq/staffroom-api/version"

	"github.com/gorilla/mux"
)

var logger = monitor.NewModuleLogger("server")

// Server holds entities that can be used to control the web server
type Server struct {
	Config         *Config
	InterruptChan  chan os.Signal
	DefaultHeaders map[string]string
	router         *mux.Router
	httpListener   *http.Server
}

// Config holds basic web server settings
type Config struct {
	Address string
}

// NewServer returns a server set up with the provisioning handler and
// permissive CORS headers applied to every response, errors included.
func NewServer(address string, accounts *provisioning.Handler) *Server {
	s := &Server{
		Config:         &Config{Address: address},
		InterruptChan:  make(chan os.Signal, 1),
		DefaultHeaders: make(map[string]string),
	}
	s.DefaultHeaders["Access-Control-Allow-Origin"] = "*"
	s.DefaultHeaders["Access-Control-Allow-Headers"] = "authorization, x-client-info, apikey, content-type"
	s.DefaultHeaders["Server"] = "staffroom-api"

	s.router = s.configureRouter(accounts)
	return s
}

// NewConfiguredServer returns a server initialized with settings from global config.
func NewConfiguredServer() (*Server, error) {
	identity, err := gotrue.NewClient(
		gotrue.WithServer(config.GetSupabaseURL()),
		gotrue.WithServiceKey(config.GetServiceRoleKey()),
	)
	if err != nil {
		return nil, err
	}
	profiles, err := postgrest.NewClient(
		postgrest.WithServer(config.GetSupabaseURL()),
		postgrest.WithServiceKey(config.GetServiceRoleKey()),
	)
	if err != nil {
		return nil, err
	}

	accounts := provisioning.NewHandler(provisioning.NewProvisioner(identity, profiles))
	return NewServer(config.GetAddress(), accounts), nil
}

func (s *Server) configureHTTPListener() *http.Server {
	return &http.Server{
		Addr:         s.Config.Address,
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func (s *Server) defaultHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range s.DefaultHeaders {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) configureRouter(accounts *provisioning.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.defaultHeadersMiddleware)
	api.InstallRoutes(r, accounts)
	return r
}

// Address returns the address the server is bound to.
func (s *Server) Address() string {
	return s.Config.Address
}

// Start starts a http server and returns immediately.
func (s *Server) Start() error {
	s.httpListener = s.configureHTTPListener()

	go func() {
		err := s.httpListener.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Log().Fatal(err)
		}
	}()
	logger.Log().Printf("listening on %v", s.Config.Address)
	return nil
}

// ServeUntilShutdown blocks until a shutdown signal is received, then shuts down the http server.
func (s *Server) ServeUntilShutdown() {
	signal.Notify(s.InterruptChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-s.InterruptChan
	logger.Log().Printf("caught a signal (%v), shutting down http server...", sig)
	err := s.Shutdown()
	if err != nil {
		logger.Log().Error("error shutting down server: ", err)
	} else {
		logger.Log().Info("http server shut down")
	}
}

// Shutdown gracefully shuts down the http server.
func (s *Server) Shutdown() error {
	return s.httpListener.Shutdown(context.Background())
}

// ServeUntilInterrupted is the main module entry point that configures and starts a webserver,
// which runs until one of OS shutdown signals are received. The function is blocking.
func ServeUntilInterrupted() {
	if err := config.Validate(); err != nil {
		logger.Log().Fatal(err)
	}
	monitor.ConfigureSentry(config.GetSentryDSN(), version.GetDevVersion(), monitor.LogMode())

	server, err := NewConfiguredServer()
	if err != nil {
		logger.Log().Fatal(err)
	}
	if err := server.Start(); err != nil {
		logger.Log().Fatal(err)
	}
	server.ServeUntilShutdown()
}
