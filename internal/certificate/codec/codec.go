// Package codec packs and unpacks the ledger's single free-text attribute.
// The chaincode's asset schema has one mutable string field, so the student
// name and the image reference share it, joined by a reserved delimiter.
package codec

import (
	"strings"

	"certchain/pkg/domainerrors"
)

// Delimiter separates the display name from the image reference inside the
// composite field. Names must not contain it.
const Delimiter = "|"

// DefaultIssuer replaces absent or sentinel issuer values at every read and
// write boundary.
const DefaultIssuer = "Educational Institution"

// Encode packs a name and an optional image reference into the composite
// field. The reference is omitted when empty.
func Encode(name, imageRef string) (string, error) {
	if strings.Contains(name, Delimiter) {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "student name must not contain "+Delimiter)
	}
	if imageRef == "" {
		return name, nil
	}
	return name + Delimiter + imageRef, nil
}

// Decode splits a composite field into name and image reference. It is total:
// any stored string, however malformed, maps to a defined pair. A missing,
// empty, or sentinel second part means no image.
func Decode(raw string) (name, imageRef string) {
	before, after, found := strings.Cut(raw, Delimiter)
	if !found {
		return raw, ""
	}
	if isSentinel(after) {
		return before, ""
	}
	return before, after
}

// NormalizeIssuer maps absent and sentinel issuer values to DefaultIssuer and
// trims everything else. Idempotent.
func NormalizeIssuer(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isSentinel(trimmed) {
		return DefaultIssuer
	}
	return trimmed
}

// isSentinel reports values that upstream clients historically stored in
// place of a real value.
func isSentinel(v string) bool {
	return v == "" || v == "undefined" || v == "null"
}
