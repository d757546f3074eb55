package tour

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for catalog fingerprints. Version suffix enables future
// algorithm migration without ambiguity.
const domainCatalog = "guidesync/catalog/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed identity for a catalog.
// The fingerprint is stable across processes given the same definitions,
// regardless of the source the catalog was loaded from.
func Fingerprint(defs []Definition) (string, error) {
	catalog := make([]any, len(defs))
	for i, d := range defs {
		catalog[i] = d.canonicalMap()
	}
	canonical, err := MarshalCanonical(catalog)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(domainCatalog, canonical), nil
}
