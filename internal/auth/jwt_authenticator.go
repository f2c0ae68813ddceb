package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims carried by access tokens. The subject is the numeric user id.
type Claims struct {
	Username string `json:"preferred_username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates bearer tokens. The local flavour verifies HS256 tokens with a
// shared secret, the oidc flavour verifies RS256 tokens against a JWKS endpoint.
type JWTAuthenticator struct {
	keyFn   jwt.Keyfunc
	methods []string
}

func NewLocalAuthenticator(secret string) (*JWTAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("local authentication requires a signing secret")
	}
	key := []byte(secret)
	return &JWTAuthenticator{
		keyFn:   func(t *jwt.Token) (any, error) { return key, nil },
		methods: []string{jwt.SigningMethodHS256.Name},
	}, nil
}

func NewOIDCAuthenticator(ctx context.Context, jwkCertURL string) (*JWTAuthenticator, error) {
	if jwkCertURL == "" {
		return nil, errors.New("oidc authentication requires a jwk url")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwkCertURL})
	if err != nil {
		return nil, fmt.Errorf("failed to get sso public keys: %w", err)
	}

	return NewOIDCAuthenticatorWithKeyFn(k.Keyfunc)
}

func NewOIDCAuthenticatorWithKeyFn(keyFn jwt.Keyfunc) (*JWTAuthenticator, error) {
	return &JWTAuthenticator{keyFn: keyFn, methods: []string{jwt.SigningMethodRS256.Name}}, nil
}

func (a *JWTAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(a.methods), jwt.WithIssuedAt(), jwt.WithExpirationRequired())

	claims := &Claims{}
	t, err := parser.ParseWithClaims(token, claims, a.keyFn)
	if err != nil {
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}
	if !t.Valid {
		return User{}, errors.New("failed to parse or validate token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return User{}, fmt.Errorf("token subject %q is not a user id", claims.Subject)
	}

	return User{
		ID:       uint(id),
		Username: claims.Username,
		Role:     workflow.ParseRole(claims.Role),
		Token:    t,
	}, nil
}

func (a *JWTAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || accessToken == "" {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		user, err := a.Authenticate(accessToken)
		if err != nil {
			zap.S().Named("auth").Debugw("authentication failed", "error", err)
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}

// IssueLocalToken signs an HS256 token accepted by the local authenticator.
func IssueLocalToken(secret string, user User, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("missing signing secret")
	}
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    "asset-qc",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
