// Package digest implements the single-round SHA-256 challenge-response
// scheme used both for inbound admin authentication and as a client of the
// SonicOS API. Only algorithm=SHA-256 with qop="auth" is supported.
package digest

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// Realm scopes the local credential namespace.
	Realm = "sonicwall_api"

	Algorithm = "SHA-256"
	QOP       = "auth"

	// NonceCount is sent literally on every request. There is no
	// incrementing nonce counter and therefore no replay window.
	NonceCount = "00000001"

	nonceBytes  = 32
	cnonceBytes = 8
)

// Params holds the key-value fields parsed from a Digest header.
type Params map[string]string

// Get returns the value for key, or empty string when absent.
func (p Params) Get(key string) string {
	return p[key]
}

// WellFormed reports whether the minimum field set for verification is
// present.
func (p Params) WellFormed() bool {
	for _, key := range []string{"username", "realm", "nonce", "response"} {
		if p[key] == "" {
			return false
		}
	}
	return true
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Nonce generates a fresh server nonce from 32 bytes of entropy.
func Nonce() string {
	b := make([]byte, nonceBytes)
	_, _ = rand.Read(b)
	return hash(string(b))
}

// Cnonce generates a client nonce from an independent randomness source,
// truncated to 16 hex characters.
func Cnonce() string {
	b := make([]byte, cnonceBytes)
	_, _ = rand.Read(b)
	return hash(string(b))[:16]
}

// BuildChallenge formats a WWW-Authenticate challenge with a fresh nonce.
func BuildChallenge() string {
	return fmt.Sprintf(`Digest realm="%s", nonce="%s", algorithm=%s, qop="%s"`,
		Realm, Nonce(), Algorithm, QOP)
}

// ParseHeader parses a Digest header (challenge or credentials) into Params.
// The scheme prefix is stripped, segments are split on top-level commas and
// each on the first "=", with whitespace and surrounding quotes trimmed.
// Quoted values that embed commas mis-parse; callers treat missing keys as
// verification failure. Malformed input yields a partial or empty map,
// never an error.
func ParseHeader(raw string) Params {
	params := Params{}
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(raw, "Digest "); ok {
		raw = after
	}
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if key != "" {
			params[key] = value
		}
	}
	return params
}

// HA1 computes hash(username:realm:secret).
func HA1(username, realm, secret string) string {
	return hash(username + ":" + realm + ":" + secret)
}

// HA2 computes hash(method:uri).
func HA2(method, uri string) string {
	return hash(method + ":" + uri)
}

// Response computes hash(ha1:nonce:nc:cnonce:qop:ha2).
func Response(ha1, nonce, nc, cnonce, qop, ha2 string) string {
	return hash(ha1 + ":" + nonce + ":" + nc + ":" + cnonce + ":" + qop + ":" + ha2)
}

// Verify recomputes the expected response from the stored secret and
// compares it against the client-supplied one. Method and URI come from the
// parsed params as the client declared them, defaulting to GET and /; the
// actual request line is not cross-checked.
func Verify(params Params, username, secret string) bool {
	if !params.WellFormed() {
		return false
	}

	method := params.Get("method")
	if method == "" {
		method = "GET"
	}
	uri := params.Get("uri")
	if uri == "" {
		uri = "/"
	}

	ha1 := HA1(username, Realm, secret)
	ha2 := HA2(method, uri)
	expected := Response(ha1,
		params.Get("nonce"),
		params.Get("nc"),
		params.Get("cnonce"),
		params.Get("qop"),
		ha2)

	return params.Get("response") == expected
}

// AuthorizationHeader computes a client response to the given challenge and
// composes the Authorization header value for it.
func AuthorizationHeader(challenge Params, username, password, method, uri string) string {
	realm := challenge.Get("realm")
	nonce := challenge.Get("nonce")
	qop := challenge.Get("qop")
	if qop == "" {
		qop = QOP
	}
	algorithm := challenge.Get("algorithm")
	if algorithm == "" {
		algorithm = Algorithm
	}
	cnonce := Cnonce()

	response := Response(
		HA1(username, realm, password),
		nonce, NonceCount, cnonce, qop,
		HA2(method, uri))

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s", `, username)
	fmt.Fprintf(&b, `realm="%s", `, realm)
	fmt.Fprintf(&b, `nonce="%s", `, nonce)
	fmt.Fprintf(&b, `uri="%s", `, uri)
	fmt.Fprintf(&b, `algorithm="%s", `, algorithm)
	fmt.Fprintf(&b, `qop="%s", `, qop)
	fmt.Fprintf(&b, `nc=%s, `, NonceCount)
	fmt.Fprintf(&b, `cnonce="%s", `, cnonce)
	fmt.Fprintf(&b, `response="%s"`, response)
	if opaque := challenge.Get("opaque"); opaque != "" {
		fmt.Fprintf(&b, `, opaque="%s"`, opaque)
	}
	return b.String()
}
