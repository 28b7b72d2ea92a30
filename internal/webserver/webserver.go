package webserver

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/y0ug/linkedauth/pkg/auth"
)

// WebServer holds the data needed for handling HTTP requests.
type WebServer struct {
	config      *WebserverConfig
	authHandler *auth.Handler
	Logger      *logrus.Logger
}

// NewWebServer initializes a new WebServer.
func NewWebServer(config *WebserverConfig, authHandler *auth.Handler, logger *logrus.Logger) *WebServer {
	return &WebServer{
		config:      config,
		authHandler: authHandler,
		Logger:      logger,
	}
}

// StartWebServer starts the HTTP server.
func StartWebServer(ctx context.Context, ws *WebServer) (*http.Server, error) {
	router := ws.InitRouter()

	// Configure CORS options. Credentials must be allowed so the state
	// cookie survives the provider round trip from browser clients.
	corsOptions := cors.Options{
		AllowedOrigins:   ws.config.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		Debug:            false,
	}

	handler := cors.New(corsOptions).Handler(router)

	server := &http.Server{
		Addr:    ws.config.ListenTo,
		Handler: handler,
	}

	// Start the server in a separate goroutine
	go func() {
		ws.Logger.Infof("Server starting on %s", ws.config.ListenTo)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.Logger.Errorf("ListenAndServe(): %v", err)
		}
	}()

	return server, nil
}

// InitRouter initializes the HTTP routes.
func (ws *WebServer) InitRouter() *mux.Router {
	r := mux.NewRouter()
	authRouter := r.PathPrefix("/auth").Subrouter()

	authRouter.HandleFunc("/login", ws.authHandler.HandleLogin).Methods("GET")
	authRouter.HandleFunc("/callback", ws.authHandler.HandleCallback).Methods("GET")
	authRouter.Handle("/status", ws.authHandler.AuthMiddleware(http.HandlerFunc(ws.authHandler.HandleStatus))).Methods("GET")

	r.HandleFunc("/healthz", ws.handleHealth).Methods("GET")

	return r
}

// handleHealth reports process liveness.
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	auth.WriteSuccessResponse(w, "ok", nil)
}
