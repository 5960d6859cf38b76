package httpapi

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// TokenAuth gates every request on an Authorization: Bearer header whose
// value matches tokenHash. There is no user database and no session
// state; polycert deployments share a single operator-issued token, so a
// bcrypt comparison on every request is cheap enough and avoids storing
// the token in the clear.
type TokenAuth struct {
	hash []byte
}

// NewTokenAuth builds a TokenAuth from a bcrypt hash of the token
// (`polycert serve --token` hashes its value once at startup).
func NewTokenAuth(hash []byte) TokenAuth {
	return TokenAuth{hash: hash}
}

func (a TokenAuth) check(req *http.Request) bool {
	if len(a.hash) == 0 {
		return true
	}
	header := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimPrefix(header, prefix)
	return bcrypt.CompareHashAndPassword(a.hash, []byte(token)) == nil
}

// require wraps ep so that it returns 401 before ep is ever called if the
// request does not carry a valid bearer token.
func (a TokenAuth) require(ep endpointFunc) endpointFunc {
	return func(req *http.Request) result {
		if !a.check(req) {
			return unauthorized()
		}
		return ep(req)
	}
}
