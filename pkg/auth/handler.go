package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/y0ug/linkedauth/pkg/linkedin"
)

// Notifier is notified when a brand-new identity is provisioned.
type Notifier interface {
	Send(title, message string)
}

// Handler holds the authentication handlers and dependencies.
type Handler struct {
	Config     *Config
	Database   Database
	LinkedIn   *linkedin.Client
	Notifier   Notifier
	Middleware *Middleware
	Logger     *logrus.Logger
}

// NewHandler initializes a new authentication handler. It fails when the
// LinkedIn client configuration is incomplete.
func NewHandler(config *Config, db Database, logger *logrus.Logger) (*Handler, error) {
	client, err := linkedin.NewClient(config.LinkedIn)
	if err != nil {
		return nil, err
	}

	return &Handler{
		Config:     config,
		Database:   db,
		LinkedIn:   client,
		Middleware: NewMiddleware(config, logger),
		Logger:     logger,
	}, nil
}

// AuthMiddleware returns the authentication middleware.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return h.Middleware.AuthMiddleware(next)
}

// HandleLogin redirects the user to the LinkedIn consent screen and sets
// the state cookie for later verification. An existing state cookie is
// reused so a double-clicked login button stays within one attempt.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var state string
	if cookie, err := r.Cookie(stateCookieName); err == nil {
		state = cookie.Value
	}
	if state == "" {
		state = generateStateString()
	}

	redirectURL, err := h.LinkedIn.AuthorizationURL(h.Config.Scopes, state)
	if err != nil {
		h.Logger.WithError(err).Error("Failed to build authorization URL")
		WriteErrorResponse(w, "Login unavailable", http.StatusInternalServerError)
		return
	}

	h.Logger.WithField("state", state).Debug("Setting verification state")
	setStateCookie(w, state, h.Config)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// HandleCallback handles the OAuth2 callback: it verifies the state
// cookie, exchanges the code, provisions the identity, and responds with
// the minted session token. Failures surface as distinguishable non-2xx
// statuses so the client can tell a failed login from a successful one.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	var expectedState string
	if cookie, err := r.Cookie(stateCookieName); err == nil {
		expectedState = cookie.Value
	}

	query := r.URL.Query()
	user, token, err := h.Exchange(r.Context(), query.Get("code"), query.Get("state"), expectedState)
	if err != nil {
		h.Logger.WithError(err).Warn("LinkedIn callback failed")
		WriteErrorResponse(w, "Login failed", callbackStatus(err))
		return
	}

	clearStateCookie(w, h.Config)

	h.Logger.WithField("uid", user.UID).Info("LinkedIn sign-in completed")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{Token: token})
}

// HandleStatus checks authentication status and returns user info.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	// Retrieve the uid from context (set by AuthMiddleware)
	uid, ok := r.Context().Value(userContextKey).(string)
	if !ok || uid == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(StatusResponse{
			Authenticated: false,
			Message:       "Failed to retrieve user information",
		})
		return
	}

	user, err := h.Database.GetUser(r.Context(), uid)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			h.Logger.WithError(err).Error("Failed to load user record")
			WriteErrorResponse(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		user = UserRecord{UID: uid}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{
		Authenticated: true,
		User:          user,
	})
}

// callbackStatus maps the exchange error taxonomy onto HTTP statuses.
func callbackStatus(err error) int {
	var provErr *ProvisioningError
	switch {
	case errors.Is(err, ErrStateMismatch):
		return http.StatusForbidden
	case errors.Is(err, linkedin.ErrEmptyCode), errors.Is(err, linkedin.ErrEmptyAccessToken):
		return http.StatusBadRequest
	case errors.As(err, &provErr):
		return http.StatusInternalServerError
	default:
		// Remaining failures come from the provider side: non-2xx
		// responses, malformed bodies, or an unreachable endpoint.
		return http.StatusBadGateway
	}
}
