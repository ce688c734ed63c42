// Package dedupe collapses duplicate investor rows into one canonical record
// per cluster. Matching is exact 3-of-5 agreement on normalized keys (phone,
// date of birth, address, tax number, email); clusters are the transitive
// closure of that relation under union-find, and each cluster is merged by
// survivor selection plus field-level fill.
package dedupe

import "strings"

// Tag identifies one of the five designated matching fields. The numeric
// order of the constants is the fixed global tag ordering used when
// enumerating key triples, so the same field-type combination always
// produces the same block signature regardless of per-record key order.
type Tag uint8

const (
	TagPhone Tag = iota
	TagDOB
	TagAddress
	TagTax
	TagEmail

	numTags = 5
)

// String returns a short tag label for logs and test failure output.
func (t Tag) String() string {
	switch t {
	case TagPhone:
		return "PH"
	case TagDOB:
		return "DOB"
	case TagAddress:
		return "ADDR"
	case TagTax:
		return "TAX"
	case TagEmail:
		return "EMAIL"
	}
	return "?"
}

// Key is one tagged, normalized match key. A Key with an empty Value is
// absent and must never participate in matching.
type Key struct {
	Tag   Tag
	Value string
}

// addressKey lowercases and strips everything outside [a-z0-9].
func addressKey(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// taxKey keeps digits only.
func taxKey(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// emailKey lowercases and trims.
func emailKey(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

// literalKey trims only. Phone and DOB values arrive pre-normalized from the
// standardization stage, so their match keys are the trimmed literals.
func literalKey(v string) string { return strings.TrimSpace(v) }

// deriveKeys computes the present match keys for one row, in fixed tag order.
// Fields whose normalized value is empty are omitted; they never count toward
// the 3-of-5 threshold. Input that is blank or missing coerces to an absent
// key, never an error.
func deriveKeys(phone, dob, address, tax, email string) []Key {
	all := [numTags]Key{
		{TagPhone, literalKey(phone)},
		{TagDOB, literalKey(dob)},
		{TagAddress, addressKey(address)},
		{TagTax, taxKey(tax)},
		{TagEmail, emailKey(email)},
	}
	keys := make([]Key, 0, numTags)
	for _, k := range all {
		if k.Value != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
