package refgen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultReferenceDir is where avatar reference photos live unless configured otherwise.
const DefaultReferenceDir = "./reference photos"

// AvatarReferenceLimit caps how many directory images the avatar flow sends.
// It is independent of MaxReferenceImages.
const AvatarReferenceLimit = 5

// DefaultImageExtensions are the file extensions picked up from a reference directory.
var DefaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// SourceKind tells a ReferenceSource variant apart.
type SourceKind int

const (
	SourceDefault SourceKind = iota
	SourceDirectory
	SourceExplicit
)

func (k SourceKind) String() string {
	switch k {
	case SourceDirectory:
		return "directory"
	case SourceExplicit:
		return "explicit"
	default:
		return "default"
	}
}

// ReferenceSource says where references come from: a directory, an explicit
// list, or the resolver's default directory. The caller decides which; the
// resolver never inspects a path to guess.
type ReferenceSource struct {
	kind SourceKind
	dir  string
	refs []ReferenceImage
}

// DefaultSource uses the resolver's configured default directory.
func DefaultSource() ReferenceSource {
	return ReferenceSource{kind: SourceDefault}
}

// DirectorySource lists images from dir.
func DirectorySource(dir string) ReferenceSource {
	return ReferenceSource{kind: SourceDirectory, dir: dir}
}

// ExplicitSource uses refs as given, in order.
func ExplicitSource(refs ...ReferenceImage) ReferenceSource {
	return ReferenceSource{kind: SourceExplicit, refs: slices.Clone(refs)}
}

// Kind returns the variant.
func (s ReferenceSource) Kind() SourceKind {
	return s.kind
}

// Resolver turns a ReferenceSource into an ordered list of references.
type Resolver struct {
	// DefaultDir is used for DefaultSource.
	DefaultDir string

	// MaxImages truncates directory listings. Zero means no truncation.
	// Explicit lists are never truncated.
	MaxImages int

	// Extensions are matched case-insensitively, with the leading dot.
	Extensions []string
}

// NewResolver returns a Resolver that does not truncate directory listings.
func NewResolver(defaultDir string) *Resolver {
	if defaultDir == "" {
		defaultDir = DefaultReferenceDir
	}
	return &Resolver{
		DefaultDir: defaultDir,
		Extensions: DefaultImageExtensions,
	}
}

// NewAvatarResolver returns a Resolver for the avatar-consistency flow,
// which keeps the first AvatarReferenceLimit images of a directory.
func NewAvatarResolver(defaultDir string) *Resolver {
	r := NewResolver(defaultDir)
	r.MaxImages = AvatarReferenceLimit
	return r
}

// Resolve returns the references for src.
func (r *Resolver) Resolve(src ReferenceSource) ([]ReferenceImage, error) {
	switch src.kind {
	case SourceExplicit:
		return slices.Clone(src.refs), nil
	case SourceDirectory:
		return r.listDirectory(src.dir)
	default:
		return r.listDirectory(r.DefaultDir)
	}
}

// DirectoryExists reports whether dir exists and is a directory.
func DirectoryExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func (r *Resolver) listDirectory(dir string) ([]ReferenceImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || !DirectoryExists(dir) {
			return nil, &DirectoryError{Dir: dir, Err: ErrReferenceDirectoryMissing}
		}
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !r.matchesExtension(entry.Name()) {
			continue
		}
		if seen[entry.Name()] {
			continue
		}
		seen[entry.Name()] = true
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return nil, &DirectoryError{Dir: dir, Err: ErrNoReferencesFound}
	}

	slices.Sort(names)
	if r.MaxImages > 0 && len(names) > r.MaxImages {
		names = names[:r.MaxImages]
	}

	refs := make([]ReferenceImage, 0, len(names))
	for _, name := range names {
		refs = append(refs, ReferenceImage{path: filepath.Join(dir, name)})
	}
	return refs, nil
}

func (r *Resolver) matchesExtension(name string) bool {
	exts := r.Extensions
	if len(exts) == 0 {
		exts = DefaultImageExtensions
	}
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
