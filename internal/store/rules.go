package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

// RuleSource is a stored rule text with its lowered rules.
type RuleSource struct {
	ID        string
	Source    string
	RulesHash string
	Rules     []ir.SplitRule
}

// SaveRules stores source and its split rules, keyed by ir.SourceID(source).
// Saving the same source twice is a no-op. Returns the id.
func (s *Store) SaveRules(ctx context.Context, source string, rules []ir.SplitRule) (string, error) {
	id := ir.SourceID(source)

	encoded, err := ir.MarshalRules(rules)
	if err != nil {
		return "", fmt.Errorf("save rules: %w", err)
	}
	hash, err := ir.RulesHash(rules)
	if err != nil {
		return "", fmt.Errorf("save rules: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rule_sources (id, source, rules_hash, split_rules)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, source, hash, string(encoded))
	if err != nil {
		return "", fmt.Errorf("save rules: %w", err)
	}
	return id, nil
}

// LoadRules returns the rule source with the given id.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) LoadRules(ctx context.Context, id string) (*RuleSource, error) {
	var (
		rs      RuleSource
		encoded string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, rules_hash, split_rules
		FROM rule_sources
		WHERE id = ?
	`, id).Scan(&rs.ID, &rs.Source, &rs.RulesHash, &encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load rules %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(encoded), &rs.Rules); err != nil {
		return nil, fmt.Errorf("load rules %s: decode split rules: %w", id, err)
	}
	return &rs, nil
}
