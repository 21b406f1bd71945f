// Package artifact loads and saves the per-artifact YAML files under a
// workspace's artifacts directory. This is the kernel's data boundary:
// artifact types are assigned here, once, from the content shape of each
// file, and the kernel never re-infers them.
package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kodebaseai/kodebase/internal/types"
)

// Store reads and writes artifact files below a root directory. Files are
// named "<id>-<slug>.yml" (the ID is everything before the first dash)
// and may sit in any subdirectory.
type Store struct {
	root string
}

// NewStore returns a store rooted at the artifacts directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the artifacts directory this store reads from.
func (s *Store) Root() string {
	return s.root
}

// LoadAll walks the tree and returns every artifact keyed by ID.
func (s *Store) LoadAll() (map[string]*types.Artifact, error) {
	artifacts := make(map[string]*types.Artifact)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isArtifactFile(path) {
			return nil
		}

		a, err := loadFile(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if existing, dup := artifacts[a.ID]; dup {
			return fmt.Errorf("duplicate artifact ID %q (already loaded as %q)", a.ID, existing.Title)
		}
		artifacts[a.ID] = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// Load finds and reads one artifact by ID.
func (s *Store) Load(id string) (*types.Artifact, error) {
	path, err := s.findFile(id)
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

// Save writes the artifact back to its existing file, or creates
// "<id>-<slug>.yml" at the store root for a new one.
func (s *Store) Save(a *types.Artifact) error {
	path, err := s.findFile(a.ID)
	if err != nil {
		path = filepath.Join(s.root, fileName(a))
	}

	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", a.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// findFile locates the file whose name starts with "<id>-" or is exactly
// "<id>.yml".
func (s *Store) findFile(id string) (string, error) {
	var found string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isArtifactFile(path) {
			return nil
		}
		if idFromFileName(filepath.Base(path)) == id {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no artifact file for ID %q under %s", id, s.root)
	}
	return found, nil
}

func isArtifactFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

func idFromFileName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.Index(name, "-"); idx >= 0 {
		return name[:idx]
	}
	return name
}

func fileName(a *types.Artifact) string {
	slug := strings.ToLower(strings.Join(strings.Fields(a.Title), "-"))
	if len(slug) > 40 {
		slug = slug[:40]
	}
	if slug == "" {
		return a.ID + ".yml"
	}
	return a.ID + "-" + slug + ".yml"
}

func loadFile(path string) (*types.Artifact, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from walking the store root
	if err != nil {
		return nil, err
	}

	var a types.Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing artifact file: %w", err)
	}

	a.ID = idFromFileName(filepath.Base(path))
	a.Type = InferType(&a)

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// InferType assigns the artifact type from whichever content fields are
// present, falling back to the depth encoded in the ID. This is the only
// place type inference happens.
func InferType(a *types.Artifact) types.ArtifactType {
	switch {
	case a.Vision != "":
		return types.TypeInitiative
	case len(a.Deliverables) > 0:
		return types.TypeMilestone
	case len(a.AcceptanceCriteria) > 0:
		return types.TypeIssue
	default:
		return types.TypeForDepth(a.ID)
	}
}

// AddBlocking records that blocker blocks blocked, maintaining the
// mirrored pair on both artifacts. Adding an existing edge is a no-op.
func AddBlocking(blocker, blocked *types.Artifact) {
	blocker.Metadata.Relationships.Blocks = appendUnique(blocker.Metadata.Relationships.Blocks, blocked.ID)
	blocked.Metadata.Relationships.BlockedBy = appendUnique(blocked.Metadata.Relationships.BlockedBy, blocker.ID)
}

// RemoveBlocking removes the mirrored pair recorded by AddBlocking.
func RemoveBlocking(blocker, blocked *types.Artifact) {
	blocker.Metadata.Relationships.Blocks = removeID(blocker.Metadata.Relationships.Blocks, blocked.ID)
	blocked.Metadata.Relationships.BlockedBy = removeID(blocked.Metadata.Relationships.BlockedBy, blocker.ID)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	ids = append(ids, id)
	sort.Strings(ids)
	return ids
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
