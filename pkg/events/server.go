// Package events receives login-event webhooks from the host platform and
// dispatches them to the auto-acceptance listener.
package events

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/listener"
)

// Server is the login-event webhook receiver
type Server struct {
	Router   *mux.Router
	Listener *listener.Listener
	DB       *gorm.DB
	srv      *http.Server
}

// NewServer creates a Server listening on host:port. secret is the shared
// HS256 secret the platform signs event tokens with.
func NewServer(
	l *listener.Listener,
	db *gorm.DB,
	secret []byte,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	s := &Server{
		Router:   router,
		Listener: l,
		DB:       db,
		srv:      srv,
	}
	s.registerEndpoints(secret)
	return s
}

func (s *Server) registerEndpoints(secret []byte) {
	auth := NewTokenAuthenticator(secret)
	s.Router.Handle("/events/login", auth.Middleware(http.HandlerFunc(s.handleLoginEvent))).Methods("POST")
	s.Router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start runs the server until it fails or is shut down
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
