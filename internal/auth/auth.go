package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brandworks/asset-qc/internal/config"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	NoneAuthentication  string = "none"
	LocalAuthentication string = "local"
	OIDCAuthentication  string = "oidc"
)

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case LocalAuthentication:
		return NewLocalAuthenticator(authConfig.Secret)
	case OIDCAuthentication:
		return NewOIDCAuthenticator(context.Background(), authConfig.JwkCertURL)
	case "", NoneAuthentication:
		return NewNoneAuthenticator()
	default:
		return nil, fmt.Errorf("unknown authentication type %q", authConfig.AuthenticationType)
	}
}
