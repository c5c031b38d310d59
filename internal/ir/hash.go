package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainIR       = "bindgen/ir/v1"
	DomainArtifact = "bindgen/artifact/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed identity for a class set.
// Classes are visited in name order and the JSON is NFC normalized, so the
// same description yields the same fingerprint regardless of load order.
func Fingerprint(classes Classes) (string, error) {
	data, err := json.Marshal(classes.Sorted())
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainIR, norm.NFC.Bytes(data)), nil
}

// ArtifactHash computes the identity of one generated artifact's bytes.
func ArtifactHash(content []byte) string {
	return hashWithDomain(DomainArtifact, content)
}
