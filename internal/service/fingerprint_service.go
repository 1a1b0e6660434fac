package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const fingerprintLength = 16

// Checksum returns the SHA-256 hex digest of the raw document bytes.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes the normalized semantic identity of a document. Case,
// diacritics and punctuation in text fields are ignored and the amount is
// truncated to whole units, so small re-scan differences map to the same value.
func Fingerprint(vendor string, issueDate *time.Time, invoiceNumber string, grandTotal float64) string {
	date := "NODATE"
	if issueDate != nil {
		date = issueDate.Format("20060102")
	}

	invoice := normalizeToken(invoiceNumber)
	if invoice == "" {
		invoice = "NOINV"
	}

	parts := []string{
		normalizeToken(vendor),
		date,
		invoice,
		strconv.FormatInt(int64(grandTotal), 10),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "_")))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
