package permissions

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current role manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// RoleManifest models a YAML document of role templates.
type RoleManifest struct {
	Version string `json:"version" yaml:"version"`
	Roles   []Role `json:"roles" yaml:"roles"`
	Source  string `json:"-" yaml:"-"`
}

// ReadManifest loads a role manifest from disk.
func ReadManifest(path string) (*RoleManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("permissions: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("permissions: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a role manifest from any reader. Role, category and
// permission ids are normalized to snake_case.
func DecodeManifest(r io.Reader) (*RoleManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc RoleManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("permissions: manifest is empty")
		}
		return nil, fmt.Errorf("permissions: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes the manifest as YAML.
func EncodeManifest(w io.Writer, doc *RoleManifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("permissions: encode manifest: %w", err)
	}
	return enc.Close()
}

// Validate ensures the manifest has a supported version, named roles and no
// duplicate ids.
func (doc *RoleManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("permissions: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Roles))
	for idx, role := range doc.Roles {
		if role.ID == "" {
			return fmt.Errorf("permissions: manifest role at index %d is missing id", idx)
		}
		if role.Name == "" {
			return fmt.Errorf("permissions: manifest role %s missing name", role.ID)
		}
		if _, exists := seen[role.ID]; exists {
			return fmt.Errorf("permissions: manifest duplicates role %s", role.ID)
		}
		seen[role.ID] = struct{}{}
		if _, err := NewMatrix(role.Categories); err != nil {
			return fmt.Errorf("permissions: manifest role %s: %w", role.ID, err)
		}
	}
	return nil
}

// Seed stores every manifest role in the repository.
func (doc *RoleManifest) Seed(ctx context.Context, repo RoleRepository) error {
	for _, role := range doc.Roles {
		if err := repo.SaveRole(ctx, role); err != nil {
			return fmt.Errorf("permissions: seed role %s: %w", role.ID, err)
		}
	}
	return nil
}

func (doc *RoleManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Roles {
		role := &doc.Roles[i]
		role.ID = NormalizeID(role.ID)
		for ci := range role.Categories {
			cat := &role.Categories[ci]
			cat.Key = NormalizeID(cat.Key)
			if cat.Title == "" {
				cat.Title = strcase.ToCase(cat.Key, strcase.TitleCase, ' ')
			}
			for pi := range cat.Permissions {
				perm := &cat.Permissions[pi]
				perm.ID = NormalizeID(perm.ID)
				if perm.Name == "" {
					perm.Name = strcase.ToCase(perm.ID, strcase.TitleCase, ' ')
				}
			}
		}
	}
}

// NormalizeID turns "View Users" or "viewUsers" into "view_users".
func NormalizeID(raw string) string {
	return strcase.ToSnake(strings.TrimSpace(raw))
}
