package refgen

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReferenceImage is an input image path with an optional role describing how
// the generation should use it ("preserve this person's face").
// The zero value is not valid; build one with ParseReference or NewReference.
type ReferenceImage struct {
	path string
	role string
}

// ParseReference parses a "path" or "path:description" token.
//
// The token is split at the first colon. Paths that themselves contain a colon
// (Windows drive letters, URLs) are split the same way.
func ParseReference(token string) (ReferenceImage, error) {
	path, role, _ := strings.Cut(token, ":")
	return NewReference(path, role)
}

// ParseReferences parses tokens in order, stopping at the first invalid one.
func ParseReferences(tokens []string) ([]ReferenceImage, error) {
	refs := make([]ReferenceImage, 0, len(tokens))
	for i, tok := range tokens {
		ref, err := ParseReference(tok)
		if err != nil {
			return nil, fmt.Errorf("reference %d: %w", i+1, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// NewReference builds a reference from a path and an optional role.
// Surrounding whitespace is trimmed from both; a blank role means none.
func NewReference(path, role string) (ReferenceImage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ReferenceImage{}, ErrEmptyReferencePath
	}
	return ReferenceImage{path: path, role: strings.TrimSpace(role)}, nil
}

// Path returns the file path of the image.
func (r ReferenceImage) Path() string {
	return r.path
}

// Role returns the role description and whether one was given.
func (r ReferenceImage) Role() (string, bool) {
	return r.role, r.role != ""
}

// Filename returns the last element of the path.
func (r ReferenceImage) Filename() string {
	return filepath.Base(r.path)
}

func (r ReferenceImage) String() string {
	if r.role == "" {
		return r.path
	}
	return r.path + ":" + r.role
}

// pathsOf returns the paths of refs, in order.
func pathsOf(refs []ReferenceImage) []string {
	paths := make([]string, len(refs))
	for i, r := range refs {
		paths[i] = r.path
	}
	return paths
}
