package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSource = "ipa-cluster/source/v1"
	DomainRules  = "ipa-cluster/rules/v1"
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

// SourceID computes the content-addressed ID of a rule source text.
// The text is hashed byte for byte.
func SourceID(code string) string {
	return hashWithDomain(DomainSource, []byte(code))
}

// RulesHash computes a hash over lowered rules. Two sources that lower to the
// same split rules (e.g. differing only in comments or variable names) share
// a hash.
func RulesHash(rules []SplitRule) (string, error) {
	canonical, err := MarshalRules(rules)
	if err != nil {
		return "", fmt.Errorf("RulesHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRules, canonical), nil
}

// MarshalRules encodes split rules as canonical JSON. The output decodes
// back into []SplitRule with encoding/json.
func MarshalRules(rules []SplitRule) ([]byte, error) {
	list := make([]any, len(rules))
	for i, r := range rules {
		list[i] = r.canonicalMap()
	}
	return MarshalCanonical(list)
}

// MustRulesHash is like RulesHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRulesHash(rules []SplitRule) string {
	h, err := RulesHash(rules)
	if err != nil {
		panic(err)
	}
	return h
}

func (r SplitRule) canonicalMap() map[string]any {
	return map[string]any{
		"constraint": map[string]any{
			"left":  r.Constraint.Left,
			"right": r.Constraint.Right,
		},
		"left":                 r.Left,
		"right":                r.Right,
		"left_before_context":  nonNil(r.LeftBeforeContext),
		"left_after_context":   nonNil(r.LeftAfterContext),
		"right_before_context": nonNil(r.RightBeforeContext),
		"right_after_context":  nonNil(r.RightAfterContext),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
