package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/models"
)

// Auth authenticates requests with HTTP basic credentials or a bearer JWT
type Auth struct {
	DB       databases.UserDatabase
	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time

	authenticator auth.Authenticator
	revoked       store.Cache
}

// NewAuth sets up the go-guardian strategies. Bearer tokens issued by CreateToken are
// cached; a token missing from the cache is accepted if its signature and expiry verify
// and it has not been revoked.
func NewAuth(db databases.UserDatabase, secret string, ttl time.Duration) *Auth {
	a := &Auth{DB: db, Secret: []byte(secret), TokenTTL: ttl}
	a.authenticator = auth.New()

	basicCache := store.NewFIFO(context.Background(), 10*time.Minute)
	tokenCache := store.NewFIFO(context.Background(), ttl)
	a.revoked = store.NewFIFO(context.Background(), ttl)
	basicStrategy := basic.New(a.ValidateUser, basicCache)
	tokenStrategy := bearer.New(a.ValidateToken, tokenCache)

	a.authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
	return a
}

// Middleware rejects unauthenticated requests and stores the user on the request context
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := a.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Debugw("unauthorized", "url", r.URL, "error", err)
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		zap.S().Debugf("User %s Authenticated", user.UserName())
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// AdminMiddleware authenticates like Middleware and then requires the admin role
func (a *Auth) AdminMiddleware(next http.Handler) http.Handler {
	return a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		if !IsAdmin(user) {
			config.ErrorStatus("admin role required", http.StatusForbidden, w, fmt.Errorf("user %s is not an admin", user.UserName()))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// Optional stores the user on the context when the request carries valid credentials.
// Anonymous and badly authenticated requests pass through without one.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			if user, err := a.authenticator.Authenticate(r); err == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			} else {
				zap.S().Debugw("ignoring failed optional auth", "url", r.URL, "error", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// TokenQuery copies a ?token= query parameter into the Authorization header. Browsers
// cannot set headers on websocket upgrades.
func TokenQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// IsAdmin reports whether user carries the admin role
func IsAdmin(user auth.Info) bool {
	if user == nil {
		return false
	}
	for _, g := range user.Groups() {
		if g == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

// CreateToken issues a bearer token for the basic-authenticated user
func (a *Auth) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	user, ok := UserFromContext(r.Context())
	if !ok {
		config.ErrorStatus("basic auth failed", http.StatusUnauthorized, w, fmt.Errorf("no authenticated user"))
		return
	}

	role := models.RoleUser
	if IsAdmin(user) {
		role = models.RoleAdmin
	}
	token, expiresAt, err := a.IssueToken(user.ID(), user.UserName(), role)
	if err != nil {
		config.ErrorStatus("failed to issue token", http.StatusInternalServerError, w, err)
		return
	}
	tokenStrategy := a.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Append(tokenStrategy, token, user, r); err != nil {
		zap.S().Warnw("failed to cache token", "error", err)
	}

	response := map[string]string{
		"token":      token,
		"_id":        user.ID(),
		"role":       string(role),
		"expires_at": expiresAt.Format(time.RFC3339),
	}
	responseBody, err := json.Marshal(response)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Write(responseBody)
}

// RevokeToken revokes the bearer token the request was made with
func (a *Auth) RevokeToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	reqToken := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if reqToken == "" {
		config.ErrorStatus("missing bearer token", http.StatusBadRequest, w, fmt.Errorf("no bearer token"))
		return
	}

	tokenStrategy := a.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(tokenStrategy, reqToken, r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusInternalServerError, w, err)
		return
	}
	if err := a.revoked.Store(reqToken, true, r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusInternalServerError, w, err)
		return
	}
	w.Write([]byte(`{"revoked": true}`))
}

// ValidateUser checks basic credentials against the stored bcrypt hash
func (a *Auth) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	usernameHash := sha256.Sum256([]byte(email))

	user, err := a.DB.FindOne(ctx, bson.M{"user.email": email})
	if err != nil {
		return nil, fmt.Errorf("no matching email found")
	}

	expectedUsernameHash := sha256.Sum256([]byte(user.Details.Email))
	usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1

	err = bcrypt.CompareHashAndPassword([]byte(user.Details.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	if usernameMatch {
		return auth.NewDefaultUser(email, user.ID, []string{string(user.Details.Role)}, nil), nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

// IssueToken signs an HS256 JWT carrying the user id, email and role
func (a *Auth) IssueToken(id, email string, role models.Role) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   id,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateToken verifies a JWT that is not in the token cache
func (a *Auth) ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	if _, revoked, _ := a.revoked.Load(token, r); revoked {
		return nil, fmt.Errorf("token has been revoked")
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return auth.NewDefaultUser(email, sub, []string{role}, nil), nil
}

func (a *Auth) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
