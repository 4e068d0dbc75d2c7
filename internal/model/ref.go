package model

import (
	"fmt"
	"strings"
)

// Ref identifies an installable package as origin/name (e.g. core/hab).
type Ref struct {
	Origin string
	Name   string
}

// ParseRef parses an origin/name identifier.
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, fmt.Errorf("invalid package reference %q (want origin/name)", s)
	}
	// Fully-qualified idents (origin/name/version/release) appear in TDEPS
	// files; only the first two segments identify the package.
	return Ref{Origin: parts[0], Name: parts[1]}, nil
}

// ParseRefs parses a list of identifiers, failing on the first bad one.
func ParseRefs(ss []string) ([]Ref, error) {
	var refs []Ref
	for _, s := range ss {
		r, err := ParseRef(s)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, nil
}

func (r Ref) String() string {
	return r.Origin + "/" + r.Name
}
