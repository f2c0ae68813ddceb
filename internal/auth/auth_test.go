package auth_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/internal/config"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "not-so-secret"

var _ = Describe("authentication", func() {
	Context("local authentication", func() {
		It("successfully validates an issued token", func() {
			token, err := auth.IssueLocalToken(testSecret, auth.User{ID: 42, Username: "batman", Role: workflow.RoleAdmin}, time.Hour)
			Expect(err).To(BeNil())

			authenticator, err := auth.NewLocalAuthenticator(testSecret)
			Expect(err).To(BeNil())

			user, err := authenticator.Authenticate(token)
			Expect(err).To(BeNil())
			Expect(user.ID).To(BeEquivalentTo(42))
			Expect(user.Username).To(Equal("batman"))
			Expect(user.Role).To(Equal(workflow.RoleAdmin))
		})

		It("parses the role case-insensitively", func() {
			token, err := auth.IssueLocalToken(testSecret, auth.User{ID: 3, Role: "Admin"}, time.Hour)
			Expect(err).To(BeNil())

			authenticator, _ := auth.NewLocalAuthenticator(testSecret)
			user, err := authenticator.Authenticate(token)
			Expect(err).To(BeNil())
			Expect(user.Role.IsAdmin()).To(BeTrue())
		})

		It("fails to authenticate -- wrong secret", func() {
			token, err := auth.IssueLocalToken("other", auth.User{ID: 1}, time.Hour)
			Expect(err).To(BeNil())

			authenticator, _ := auth.NewLocalAuthenticator(testSecret)
			_, err = authenticator.Authenticate(token)
			Expect(err).ToNot(BeNil())
		})

		It("fails to authenticate -- expired token", func() {
			token, err := auth.IssueLocalToken(testSecret, auth.User{ID: 1}, -time.Minute)
			Expect(err).To(BeNil())

			authenticator, _ := auth.NewLocalAuthenticator(testSecret)
			_, err = authenticator.Authenticate(token)
			Expect(err).ToNot(BeNil())
		})

		It("fails to authenticate -- subject is not a user id", func() {
			claims := auth.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "somebody",
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			Expect(err).To(BeNil())

			authenticator, _ := auth.NewLocalAuthenticator(testSecret)
			_, err = authenticator.Authenticate(token)
			Expect(err).ToNot(BeNil())
		})

		It("requires a secret", func() {
			_, err := auth.NewLocalAuthenticator("")
			Expect(err).ToNot(BeNil())
		})
	})

	Context("oidc authentication", func() {
		It("successfully validates the token", func() {
			sToken, keyFn := generateRS256Token("7", "robin", "user")
			authenticator, err := auth.NewOIDCAuthenticatorWithKeyFn(keyFn)
			Expect(err).To(BeNil())

			user, err := authenticator.Authenticate(sToken)
			Expect(err).To(BeNil())
			Expect(user.ID).To(BeEquivalentTo(7))
			Expect(user.Username).To(Equal("robin"))
			Expect(user.Role).To(Equal(workflow.RoleUser))
		})

		It("fails to authenticate -- wrong signing method", func() {
			sToken, keyFn := generateES256Token()
			authenticator, err := auth.NewOIDCAuthenticatorWithKeyFn(keyFn)
			Expect(err).To(BeNil())

			_, err = authenticator.Authenticate(sToken)
			Expect(err).ToNot(BeNil())
		})
	})

	Context("middleware", func() {
		It("successfully authenticates", func() {
			sToken, keyFn := generateRS256Token("7", "robin", "admin")
			authenticator, err := auth.NewOIDCAuthenticatorWithKeyFn(keyFn)
			Expect(err).To(BeNil())

			h := &handler{}
			ts := httptest.NewServer(authenticator.Authenticator(h))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			Expect(err).To(BeNil())
			req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", sToken))

			resp, rerr := http.DefaultClient.Do(req)
			Expect(rerr).To(BeNil())
			Expect(resp.StatusCode).To(Equal(200))
			Expect(h.user.ID).To(BeEquivalentTo(7))
			Expect(h.user.Role).To(Equal(workflow.RoleAdmin))
		})

		It("rejects requests without a token", func() {
			authenticator, _ := auth.NewLocalAuthenticator(testSecret)

			rec := httptest.NewRecorder()
			authenticator.Authenticator(&handler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects invalid tokens", func() {
			sToken, keyFn := generateES256Token()
			authenticator, _ := auth.NewOIDCAuthenticatorWithKeyFn(keyFn)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", sToken))
			rec := httptest.NewRecorder()
			authenticator.Authenticator(&handler{}).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("none authenticator uses the admin user", func() {
			authenticator, err := auth.NewAuthenticator(config.Auth{AuthenticationType: auth.NoneAuthentication})
			Expect(err).To(BeNil())

			h := &handler{}
			authenticator.Authenticator(h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(h.user.ID).To(BeEquivalentTo(1))
			Expect(h.user.Role).To(Equal(workflow.RoleAdmin))
		})

		It("none authenticator honours the role header", func() {
			authenticator, _ := auth.NewNoneAuthenticator()

			h := &handler{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(auth.RoleHeader, "User")
			authenticator.Authenticator(h).ServeHTTP(httptest.NewRecorder(), req)
			Expect(h.user.Role).To(Equal(workflow.RoleUser))
		})

		It("none authenticator honours the user id header", func() {
			authenticator, _ := auth.NewNoneAuthenticator()

			h := &handler{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(auth.UserIDHeader, "42")
			authenticator.Authenticator(h).ServeHTTP(httptest.NewRecorder(), req)
			Expect(h.user.ID).To(BeEquivalentTo(42))
			Expect(h.user.Role).To(Equal(workflow.RoleAdmin))

			req = httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(auth.UserIDHeader, "not-a-number")
			authenticator.Authenticator(h).ServeHTTP(httptest.NewRecorder(), req)
			Expect(h.user.ID).To(BeEquivalentTo(1))
		})

		It("rejects unknown authentication types", func() {
			_, err := auth.NewAuthenticator(config.Auth{AuthenticationType: "saml"})
			Expect(err).ToNot(BeNil())
		})
	})
})

type handler struct {
	user auth.User
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.user = auth.MustHaveUser(r.Context())
	w.WriteHeader(200)
}

func generateRS256Token(sub, username, role string) (string, jwt.Keyfunc) {
	claims := auth.Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "test",
			Subject:   sub,
		},
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).To(BeNil())

	ss, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
	Expect(err).To(BeNil())

	return ss, func(t *jwt.Token) (any, error) {
		return privateKey.Public(), nil
	}
}

func generateES256Token() (string, jwt.Keyfunc) {
	claims := auth.Claims{
		Username: "joker",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "13",
		},
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).To(BeNil())

	ss, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(privateKey)
	Expect(err).To(BeNil())

	return ss, func(t *jwt.Token) (any, error) {
		return privateKey.Public(), nil
	}
}
