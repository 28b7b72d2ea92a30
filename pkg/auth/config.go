package auth

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/y0ug/linkedauth/pkg/linkedin"
)

// DefaultScopes are requested when OAUTH_SCOPES is not set.
var DefaultScopes = []string{"r_liteprofile", "r_emailaddress", "w_member_social"}

// Config holds the authentication configuration.
type Config struct {
	LinkedIn *linkedin.Config
	Scopes   []string

	JwtSecret             []byte
	CustomTokenExpiration time.Duration

	SecureCookie   bool
	CookieSameSite http.SameSite
}

// NewConfig initializes the authentication configuration from environment
// variables. Client credential validation happens in linkedin.NewClient,
// when the handler is constructed.
func NewConfig() (*Config, error) {
	config := &Config{}

	jwtSecret, err := getEnvBytes("JWT_SECRET")
	if err != nil {
		return nil, fmt.Errorf("error loading JWT_SECRET: %w", err)
	}
	config.JwtSecret = jwtSecret

	config.CustomTokenExpiration, err = parseDurationString(getEnv("CUSTOM_TOKEN_EXPIRATION", "minutes=60"))
	if err != nil {
		return nil, fmt.Errorf("error parsing CUSTOM_TOKEN_EXPIRATION: %w", err)
	}

	config.SecureCookie, err = strconv.ParseBool(getEnv("SECURE_COOKIE", "true"))
	if err != nil {
		return nil, fmt.Errorf("error parsing SECURE_COOKIE: %w", err)
	}

	config.CookieSameSite, err = parseSameSite(getEnv("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return nil, fmt.Errorf("error parsing COOKIE_SAMESITE: %w", err)
	}

	for _, scope := range strings.Split(getEnv("OAUTH_SCOPES", strings.Join(DefaultScopes, ",")), ",") {
		scope = strings.TrimSpace(scope)
		if scope != "" {
			config.Scopes = append(config.Scopes, scope)
		}
	}

	timeout, err := parseDurationString(getEnv("LINKEDIN_HTTP_TIMEOUT", "seconds=10"))
	if err != nil {
		return nil, fmt.Errorf("error parsing LINKEDIN_HTTP_TIMEOUT: %w", err)
	}

	config.LinkedIn = &linkedin.Config{
		ClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		ClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("LINKEDIN_REDIRECT_URL"),
		OAuthBaseURL: os.Getenv("LINKEDIN_OAUTH_BASE_URL"),
		APIBaseURL:   os.Getenv("LINKEDIN_API_BASE_URL"),
		Timeout:      timeout,
	}

	return config, nil
}

// getEnv retrieves the value of the environment variable named by the key.
// It returns the value, or the defaultValue if the variable is not present.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBytes retrieves the byte slice value of the environment variable named by the key.
// It returns the byte slice, or an error if the variable is not set.
func getEnvBytes(key string) ([]byte, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil, fmt.Errorf("environment variable %s not set", key)
	}
	return []byte(value), nil
}

// parseDurationString parses a duration string formatted as "minutes=1, hours=2, days=3, seconds=30"
func parseDurationString(s string) (time.Duration, error) {
	parts := strings.Split(s, ",")
	var totalDuration time.Duration

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyValue := strings.SplitN(part, "=", 2)
		if len(keyValue) != 2 {
			return 0, fmt.Errorf("invalid format for part: '%s'", part)
		}
		key := strings.ToLower(strings.TrimSpace(keyValue[0]))
		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: '%s'", key, valueStr)
		}

		switch key {
		case "minutes":
			totalDuration += time.Duration(value) * time.Minute
		case "hours":
			totalDuration += time.Duration(value) * time.Hour
		case "days":
			totalDuration += time.Duration(value) * 24 * time.Hour
		case "seconds":
			totalDuration += time.Duration(value) * time.Second
		default:
			return 0, fmt.Errorf("unknown time unit: '%s'", key)
		}
	}

	return totalDuration, nil
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("invalid SameSite value: '%s'", s)
	}
}
