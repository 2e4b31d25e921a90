package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// APIKeyHeader is the header the LMS gateway injects on proxied calls
const APIKeyHeader = "x-api-key"

// Roles allowed to modify lecturer records
const (
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

const principalContextKey contextKey = "principal"

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrForbiddenRole      = errors.New("role may not modify lecturers")
	ErrNotOwner           = errors.New("lecturers may only modify their own record")
)

// Principal identifies who made an authenticated request
type Principal struct {
	Subject string
	Role    string
	Method  string // "api_key" or "jwt"
}

// Claims are the JWT claims issued by the LMS auth service
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTService validates (and for tests and tooling, issues) HS256 tokens
type JWTService struct {
	secretKey []byte
	issuer    string
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{secretKey: []byte(secretKey), issuer: issuer}
}

// GenerateToken signs a token for subject with role
func (s *JWTService) GenerateToken(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// AuthMiddleware guards write routes with the gateway API key or a JWT
type AuthMiddleware struct {
	apiKey     string
	jwtService *JWTService
	logger     *logger.Logger
}

// NewAuthMiddleware creates a new auth middleware. An empty apiKey disables
// key auth; a nil jwtService disables bearer tokens.
func NewAuthMiddleware(apiKey string, jwtService *JWTService, logger *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		apiKey:     apiKey,
		jwtService: jwtService,
		logger:     logger.WithComponent("auth-middleware"),
	}
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*Principal, error) {
	if key := r.Header.Get(APIKeyHeader); key != "" && m.apiKey != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) != 1 {
			return nil, fmt.Errorf("invalid api key")
		}
		return &Principal{Subject: "gateway", Role: RoleAdmin, Method: "api_key"}, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || m.jwtService == nil {
		return nil, ErrMissingCredentials
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("invalid Authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}

	if claims.Role != RoleLecturer && claims.Role != RoleAdmin {
		return nil, ErrForbiddenRole
	}

	return &Principal{Subject: claims.Subject, Role: claims.Role, Method: "jwt"}, nil
}

func (m *AuthMiddleware) require(next http.Handler, reject func(w http.ResponseWriter, r *http.Request, err error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("Authentication failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			reject(w, r, err)
			return
		}

		m.logger.Debug("Authentication successful",
			zap.String("subject", principal.Subject),
			zap.String("role", principal.Role),
			zap.String("method", principal.Method))

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAuth rejects unauthenticated JSON-RPC calls with an Unauthorized error
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.require(next, func(w http.ResponseWriter, r *http.Request, err error) {
		jsonrpcx.WithError(r, nil, jsonrpcx.Unauthorized, "Unauthorized")
	})
}

// RequireAuthREST rejects unauthenticated REST calls with HTTP 401/403
func (m *AuthMiddleware) RequireAuthREST(next http.Handler) http.Handler {
	return m.require(next, func(w http.ResponseWriter, r *http.Request, err error) {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrForbiddenRole) {
			status = http.StatusForbidden
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
	})
}

// WithPrincipal returns ctx carrying the authenticated caller
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// CanModify reports whether the principal may write the lecturer record id.
// Admins and the gateway may write any record; a lecturer only the record
// whose id equals its subject.
func (p *Principal) CanModify(id string) bool {
	if p.Role != RoleLecturer {
		return true
	}
	return id != "" && p.Subject == id
}

// AuthorizeTarget returns ErrNotOwner when the caller in ctx may not write
// the lecturer record id. Requests without a principal did not pass through
// RequireAuth and are left to the route's own guard.
func AuthorizeTarget(ctx context.Context, id string) error {
	principal, ok := GetPrincipal(ctx)
	if !ok || principal.CanModify(id) {
		return nil
	}
	return ErrNotOwner
}

// GetPrincipal extracts the authenticated caller from request context
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(*Principal)
	return principal, ok
}
