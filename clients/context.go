package clients

import (
	"context"
	"net/http"
)

// Credentials are the caller's credentials replayed on collaborator calls.
type Credentials struct {
	Authorization string
	Cookie        string
}

type credentialsKey struct{}

func WithForwardedAuth(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

func ForwardedAuth(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// CredentialsFromRequest captures the headers the collaborator authenticates with.
func CredentialsFromRequest(r *http.Request) Credentials {
	return Credentials{
		Authorization: r.Header.Get("Authorization"),
		Cookie:        r.Header.Get("Cookie"),
	}
}

func (c Credentials) apply(req *http.Request) {
	if c.Authorization != "" {
		req.Header.Set("Authorization", c.Authorization)
	}
	if c.Cookie != "" {
		req.Header.Set("Cookie", c.Cookie)
	}
}
