package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm change.
const (
	DomainSpec   = "msgidl/spec/v1"
	DomainSource = "msgidl/source/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content address of a spec document.
// Two evaluations of the same schema for the same language hash equal.
func SpecHash(doc DocObject) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSpec, canonical), nil
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when the document is known to be valid.
func MustSpecHash(doc DocObject) string {
	h, err := SpecHash(doc)
	if err != nil {
		panic(err)
	}
	return h
}

// SourceHash computes the content address of a set of schema sources, in
// the order given. Each source is length-prefixed so concatenations of
// different splits hash differently.
func SourceHash(sources ...[]byte) string {
	var data []byte
	for _, src := range sources {
		data = binary.BigEndian.AppendUint64(data, uint64(len(src)))
		data = append(data, src...)
	}
	return hashWithDomain(DomainSource, data)
}
