package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

type Account struct {
	Username string
	Password string
}

func unauthorized() *response.Response {
	return response.New(wire.StatusUnauthorized).
		WithHeader("WWW-Authenticate", `Basic realm="Restricted"`)
}

// BasicAuthMiddleware rejects requests whose Authorization header does not
// carry the credentials of one of the accounts.
func BasicAuthMiddleware(accounts []Account) router.Middleware {
	accountMap := make(map[string]string)
	for _, acc := range accounts {
		accountMap[acc.Username] = acc.Password
	}

	return func(next router.Handler) router.Handler {
		return router.HandlerFunc(func(r *request.Request, a *args.Args) (*response.Response, error) {
			auth := r.Header("Authorization")

			if !strings.HasPrefix(auth, "Basic ") {
				return unauthorized(), nil
			}

			payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
			if err != nil {
				return response.NewTextResponse("Invalid authorization header").
					WithStatus(wire.StatusBadRequest), nil
			}

			user, pass, found := strings.Cut(string(payload), ":")
			if !found {
				return response.NewTextResponse("Invalid authorization header").
					WithStatus(wire.StatusBadRequest), nil
			}

			actualPass, ok := accountMap[user]
			if !ok || subtle.ConstantTimeCompare([]byte(actualPass), []byte(pass)) != 1 {
				return unauthorized(), nil
			}

			return next.ServeRequest(r, a)
		})
	}
}
