package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"projecthub/microservices/progress-service/clients"
	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/utils"
)

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

var errNoCredentials = errors.New("no credentials")

type identityKey struct{}

// IdentityResolver asks the collaborator who the forwarded credentials belong to.
type IdentityResolver interface {
	Me(ctx context.Context) (models.Employee, error)
}

type Authenticator struct {
	Secret   []byte
	Resolver IdentityResolver
}

func NewAuthenticator(secret string, resolver IdentityResolver) *Authenticator {
	return &Authenticator{Secret: []byte(secret), Resolver: resolver}
}

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller set by Authenticate, nil when absent.
func IdentityFrom(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey{}).(*models.Identity)
	return identity
}

// Authenticate resolves the caller from a Bearer JWT or, failing that, from
// the collaborator's /me with the forwarded session. The caller's credentials
// travel on the request context so collaborator calls replay them.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := clients.CredentialsFromRequest(r)
		ctx := clients.WithForwardedAuth(r.Context(), creds)

		identity, err := a.resolve(ctx, creds)
		if err != nil {
			if clients.IsRetryable(err) {
				logging.Logger.Errorf("Event ID: AUTH_COLLABORATOR_UNAVAILABLE, Description: Identity lookup failed for %s %s: %v", r.Method, r.URL.Path, err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"error": "identity service unavailable", "retryable": true})
				return
			}
			logging.Logger.Warnf("Event ID: AUTH_UNAUTHENTICATED, Description: No identity for %s %s: %v", r.Method, r.URL.Path, err)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required", "redirect": LoginPath})
			return
		}

		logging.Logger.Debugf("Event ID: AUTH_SUCCESS, Description: Employee %d (%s) authenticated for %s %s", identity.EmployeeID, identity.Role, r.Method, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

func (a *Authenticator) resolve(ctx context.Context, creds clients.Credentials) (*models.Identity, error) {
	if token, ok := bearerToken(creds.Authorization); ok && len(a.Secret) > 0 {
		claims, err := utils.ValidateToken(a.Secret, token)
		if err == nil {
			return &models.Identity{EmployeeID: claims.EmployeeID, Role: claims.Role}, nil
		}
		logging.Logger.Debugf("Event ID: AUTH_TOKEN_REJECTED, Description: Bearer token not accepted locally: %v", err)
	}
	if creds.Authorization == "" && creds.Cookie == "" {
		return nil, errNoCredentials
	}
	if a.Resolver == nil {
		return nil, errNoCredentials
	}
	me, err := a.Resolver.Me(ctx)
	if err != nil {
		return nil, err
	}
	if me.ID == 0 {
		return nil, errNoCredentials
	}
	return &models.Identity{EmployeeID: me.ID, Role: me.RoleName()}, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
