// Package verify authenticates inbound Slack webhook requests against the
// workspace signing secret.
package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Slack signs the string "v0:<timestamp>:<body>" and sends the hex digest
// in the X-Slack-Signature header with a "v0=" prefix.
const signaturePrefix = "v0="

var (
	ErrMissingTimestamp   = errors.New("missing request timestamp")
	ErrMissingSignature   = errors.New("missing signature header")
	ErrMalformedSignature = errors.New("malformed signature header")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// Verify checks the request signature against the signing secret. The
// timestamp is not checked for freshness; replay-window enforcement is a
// deliberate non-feature at this layer.
func Verify(timestamp string, body []byte, signatureHeader string, secret []byte) error {
	if timestamp == "" {
		return ErrMissingTimestamp
	}
	if signatureHeader == "" {
		return ErrMissingSignature
	}
	if len(signatureHeader) <= len(signaturePrefix) || !strings.HasPrefix(signatureHeader, signaturePrefix) {
		return ErrMalformedSignature
	}

	claimed, err := hex.DecodeString(signatureHeader[len(signaturePrefix):])
	if err != nil {
		return ErrMalformedSignature
	}

	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)

	if !hmac.Equal(claimed, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}
