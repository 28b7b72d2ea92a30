package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/y0ug/linkedauth/pkg/linkedin"
)

// memDB is an in-memory Database used by the tests.
type memDB struct {
	mu         sync.Mutex
	users      map[string]UserRecord
	tokens     map[string]string
	failUpsert bool
}

func newMemDB() *memDB {
	return &memDB{
		users:  make(map[string]UserRecord),
		tokens: make(map[string]string),
	}
}

func (m *memDB) UpsertUser(ctx context.Context, user UserRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert {
		return false, errors.New("store unavailable")
	}
	_, exists := m.users[user.UID]
	m.users[user.UID] = user
	return !exists, nil
}

func (m *memDB) GetUser(ctx context.Context, uid string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[uid]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

func (m *memDB) StoreAccessToken(ctx context.Context, uid string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[uid] = token
	return nil
}

func (m *memDB) GetAccessToken(ctx context.Context, uid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[uid]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// providerStub serves the three LinkedIn endpoints the exchange touches
// and counts every request it receives.
type providerStub struct {
	server *httptest.Server
	calls  int64

	profileStatus int
	profileBody   map[string]string
	emailStatus   int
	emailBody     string
}

func newProviderStub() *providerStub {
	stub := &providerStub{
		profileStatus: http.StatusOK,
		profileBody: map[string]string{
			"id":                 "U1",
			"localizedFirstName": "Ada",
			"localizedLastName":  "Lovelace",
			"pictureUrl":         "http://x/p.jpg",
		},
		emailStatus: http.StatusOK,
		emailBody:   `{"elements":[{"handle~":{"emailAddress":"ada@example.com"}}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/accessToken", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&stub.calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "T1"})
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&stub.calls, 1)
		if stub.profileStatus != http.StatusOK {
			w.WriteHeader(stub.profileStatus)
			return
		}
		json.NewEncoder(w).Encode(stub.profileBody)
	})
	mux.HandleFunc("/emailAddress", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&stub.calls, 1)
		if stub.emailStatus != http.StatusOK {
			w.WriteHeader(stub.emailStatus)
			return
		}
		w.Write([]byte(stub.emailBody))
	})

	stub.server = httptest.NewServer(mux)
	return stub
}

func (s *providerStub) Close() {
	s.server.Close()
}

func (s *providerStub) Calls() int64 {
	return atomic.LoadInt64(&s.calls)
}

func newTestHandler(t *testing.T, stub *providerStub, db Database) *Handler {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	config := &Config{
		LinkedIn: &linkedin.Config{
			ClientID:     "client123",
			ClientSecret: "secret456",
			RedirectURL:  "https://app.example.com/login",
			OAuthBaseURL: stub.server.URL,
			APIBaseURL:   stub.server.URL,
		},
		Scopes:                []string{"r_liteprofile", "r_emailaddress", "w_member_social"},
		JwtSecret:             []byte("testsecret"),
		CustomTokenExpiration: time.Hour,
		SecureCookie:          true,
		CookieSameSite:        http.SameSiteLaxMode,
	}

	handler, err := NewHandler(config, db, logger)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return handler
}

func TestExchangeStateMismatch(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	handler := newTestHandler(t, stub, newMemDB())

	_, _, err := handler.Exchange(context.Background(), "C1", "xyz", "abc")
	if !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch, got %v", err)
	}
	if stub.Calls() != 0 {
		t.Errorf("expected zero outbound calls, got %d", stub.Calls())
	}
}

func TestExchangeMissingExpectedState(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	handler := newTestHandler(t, stub, newMemDB())

	_, _, err := handler.Exchange(context.Background(), "C1", "abc", "")
	if !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch, got %v", err)
	}
	if stub.Calls() != 0 {
		t.Errorf("expected zero outbound calls, got %d", stub.Calls())
	}
}

func TestExchangeEmptyCode(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	handler := newTestHandler(t, stub, newMemDB())

	_, _, err := handler.Exchange(context.Background(), "", "S1", "S1")
	if !errors.Is(err, linkedin.ErrEmptyCode) {
		t.Errorf("expected ErrEmptyCode, got %v", err)
	}
	if stub.Calls() != 0 {
		t.Errorf("expected zero outbound calls, got %d", stub.Calls())
	}
}

func TestExchangeEndToEnd(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	db := newMemDB()
	handler := newTestHandler(t, stub, db)

	user, token, err := handler.Exchange(context.Background(), "C1", "S1", "S1")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	want := UserRecord{
		UID:           "linkedin:U1",
		DisplayName:   "Ada Lovelace",
		PhotoURL:      "http://x/p.jpg",
		Email:         "ada@example.com",
		EmailVerified: true,
	}
	if *user != want {
		t.Errorf("unexpected user record:\n got %+v\nwant %+v", *user, want)
	}

	stored, err := db.GetUser(context.Background(), "linkedin:U1")
	if err != nil {
		t.Fatalf("user was not provisioned: %v", err)
	}
	if stored != want {
		t.Errorf("stored record mismatch: %+v", stored)
	}

	accessToken, err := db.GetAccessToken(context.Background(), "linkedin:U1")
	if err != nil || accessToken != "T1" {
		t.Errorf("expected stored access token T1, got %q (%v)", accessToken, err)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte("testsecret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("minted token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "linkedin:U1" {
		t.Errorf("expected sub linkedin:U1, got %v", claims["sub"])
	}
}

func TestExchangeIdempotentProvisioning(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	db := newMemDB()
	handler := newTestHandler(t, stub, db)

	if _, _, err := handler.Exchange(context.Background(), "C1", "S1", "S1"); err != nil {
		t.Fatalf("first exchange failed: %v", err)
	}

	// Same member id, changed mutable fields
	stub.profileBody = map[string]string{
		"id":                 "U1",
		"localizedFirstName": "Ada",
		"localizedLastName":  "King",
		"pictureUrl":         "http://x/p2.jpg",
	}
	if _, _, err := handler.Exchange(context.Background(), "C2", "S2", "S2"); err != nil {
		t.Fatalf("second exchange failed: %v", err)
	}

	if len(db.users) != 1 {
		t.Fatalf("expected exactly one identity record, got %d", len(db.users))
	}
	user := db.users["linkedin:U1"]
	if user.DisplayName != "Ada King" || user.PhotoURL != "http://x/p2.jpg" {
		t.Errorf("second call's fields should win, got %+v", user)
	}
}

func TestExchangeProfileNotFound(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	stub.profileStatus = http.StatusNotFound
	handler := newTestHandler(t, stub, newMemDB())

	user, _, err := handler.Exchange(context.Background(), "C1", "S1", "S1")
	if err != nil {
		t.Fatalf("absent profile must not fail the exchange: %v", err)
	}
	if user.UID != "linkedin:" {
		t.Errorf("unexpected uid: %q", user.UID)
	}
	if user.DisplayName != "" || user.PhotoURL != "" {
		t.Errorf("profile fields should be empty, got %+v", user)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email should still be projected, got %q", user.Email)
	}
}

func TestExchangeEmailEnvelopeAbsent(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	stub.emailBody = `{"elements":[]}`
	handler := newTestHandler(t, stub, newMemDB())

	user, _, err := handler.Exchange(context.Background(), "C1", "S1", "S1")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if user.Email != "" {
		t.Errorf("expected empty email, got %q", user.Email)
	}
}

func TestExchangeProviderError(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	stub.profileStatus = http.StatusInternalServerError
	handler := newTestHandler(t, stub, newMemDB())

	_, _, err := handler.Exchange(context.Background(), "C1", "S1", "S1")
	var apiErr *linkedin.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestExchangeProvisioningFailure(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()
	db := newMemDB()
	db.failUpsert = true
	handler := newTestHandler(t, stub, db)

	_, _, err := handler.Exchange(context.Background(), "C1", "S1", "S1")
	var provErr *ProvisioningError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProvisioningError, got %v", err)
	}
	if provErr.Op != "upsert user" {
		t.Errorf("unexpected op: %s", provErr.Op)
	}
}
