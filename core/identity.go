// Package core implements the extraction, scoring, enrichment and
// aggregation stages of teampulse.
package core

import (
	"github.com/teampulse/teampulse/internal/contract"
)

// Resolver canonicalizes raw author identities and decides which
// identities are excluded from analysis.
type Resolver struct {
	mapping  map[string]string
	excluded map[string]struct{}
}

// NewResolver builds a resolver from a normalized mapping and an
// exclusion list. The mapping is expected to be pre-normalized by
// config processing; raw maps passed directly are normalized here so
// the resolver is safe to construct in tests.
func NewResolver(mapping map[string]string, excluded []string) *Resolver {
	m := make(map[string]string, len(mapping))
	for k, v := range mapping {
		m[contract.NormalizeIdentity(k)] = contract.NormalizeIdentity(v)
	}
	ex := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		if n := contract.NormalizeIdentity(e); n != "" {
			ex[n] = struct{}{}
		}
	}
	return &Resolver{mapping: m, excluded: ex}
}

// Canonicalize resolves a raw (name, email) pair to a canonical handle.
// Lookup order: email match, then display-name match, then the
// normalized raw identity itself. Total: any input yields a handle.
// Because mapping targets are themselves normalized, resolving a
// canonical handle again returns the same handle.
func (r *Resolver) Canonicalize(name, email string) string {
	normEmail := contract.NormalizeIdentity(email)
	if h, ok := r.mapping[normEmail]; ok {
		return h
	}
	normName := contract.NormalizeIdentity(name)
	if h, ok := r.mapping[normName]; ok {
		return h
	}
	if normName != "" {
		return normName
	}
	return normEmail
}

// Excluded reports whether a commit from this identity should be
// dropped before aggregation. Raw name, raw email and the resolved
// handle are all checked against the exclusion set.
func (r *Resolver) Excluded(name, email string) bool {
	if _, ok := r.excluded[contract.NormalizeIdentity(name)]; ok {
		return true
	}
	if _, ok := r.excluded[contract.NormalizeIdentity(email)]; ok {
		return true
	}
	_, ok := r.excluded[r.Canonicalize(name, email)]
	return ok
}
