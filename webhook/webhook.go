// Package webhook verifies HMAC signatures on callback payloads delivered by
// the VLM Run platform. Payloads are untrusted until Verify returns true.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the HTTP header carrying the payload signature.
const SignatureHeader = "X-VLM-Signature"

// signaturePrefix precedes the hex digest in the signature header value.
const signaturePrefix = "sha256="

// Verify reports whether rawBody was signed with secret.
//
// The signature header must have the form "sha256=<lowercase-hex-digest>", where
// the digest is HMAC-SHA256 over the exact bytes received on the wire. Any
// malformed input - missing or misprefixed header, empty secret, truncated or
// non-hex digest, uppercase hex - yields false rather than an error, so callers
// can treat the result as a plain gate. The digest comparison is constant time.
func Verify(rawBody []byte, signatureHeader, secret string) bool {
	if !strings.HasPrefix(signatureHeader, signaturePrefix) {
		return false
	}
	if secret == "" {
		return false
	}

	received := strings.TrimPrefix(signatureHeader, signaturePrefix)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal keeps the comparison constant time; the hex comparison is
	// case sensitive, so an uppercase-mangled signature fails.
	return hmac.Equal([]byte(received), []byte(expected))
}

// VerifyString verifies a payload received as text. The body is hashed as its
// UTF-8 bytes, so the result is identical to calling Verify on the same content.
func VerifyString(rawBody, signatureHeader, secret string) bool {
	return Verify([]byte(rawBody), signatureHeader, secret)
}

// Sign computes the signature header value for rawBody under secret. It is the
// inverse of Verify and is useful for building test fixtures and local tooling.
func Sign(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
