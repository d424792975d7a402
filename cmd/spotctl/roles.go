package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-spotadmin/components/permissions"
)

type validateRolesCmd struct {
	Path string `arg:"" type:"existingfile" help:"Role manifest YAML."`
}

func (cmd *validateRolesCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := permissions.ReadManifest(cmd.Path)
	if err != nil {
		return err
	}
	printf(out, "✓ %s defines %d roles\n", cmd.Path, len(doc.Roles))
	for _, role := range doc.Roles {
		matrix, err := permissions.NewMatrix(role.Categories)
		if err != nil {
			return err
		}
		printf(out, "  %-20s %d/%d permissions enabled\n", role.ID, matrix.CountEnabled(), matrix.Total())
	}
	return nil
}

type scaffoldRoleCmd struct {
	ManifestPath string   `required:"" name:"manifest" type:"path" help:"Role manifest YAML to create or update."`
	ID           string   `help:"Role id (defaults to the snake_case name)."`
	Name         string   `required:"" help:"Display name for the role."`
	Description  string   `help:"One-line description."`
	Permission   []string `help:"Permission as category:permission, suffix =on to enable (repeatable)."`
	Overwrite    bool     `help:"Replace the role if the manifest already defines it."`
}

func (cmd *scaffoldRoleCmd) Run(_ context.Context, out io.Writer) error {
	role, err := cmd.role()
	if err != nil {
		return err
	}
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("spotctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	replaced := false
	for idx := range doc.Roles {
		if doc.Roles[idx].ID != role.ID {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("spotctl: manifest already defines role %s (use --overwrite to replace)", role.ID)
		}
		doc.Roles[idx] = role
		replaced = true
	}
	if !replaced {
		doc.Roles = append(doc.Roles, role)
	}
	sort.Slice(doc.Roles, func(i, j int) bool { return doc.Roles[i].ID < doc.Roles[j].ID })
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	printf(out, "✓ Added role %s to %s\n", role.ID, path)
	return nil
}

func (cmd *scaffoldRoleCmd) role() (permissions.Role, error) {
	id := cmd.ID
	if id == "" {
		id = cmd.Name
	}
	role := permissions.Role{
		ID:          permissions.NormalizeID(id),
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
	}
	index := map[string]int{}
	for _, raw := range cmd.Permission {
		spec, enabled := strings.CutSuffix(strings.TrimSpace(raw), "=on")
		categoryKey, permID, ok := strings.Cut(spec, ":")
		if !ok || strings.TrimSpace(categoryKey) == "" || strings.TrimSpace(permID) == "" {
			return permissions.Role{}, fmt.Errorf("spotctl: permission %q must look like category:permission", raw)
		}
		key := permissions.NormalizeID(categoryKey)
		pos, exists := index[key]
		if !exists {
			role.Categories = append(role.Categories, permissions.Category{
				Key:   key,
				Title: strcase.ToCase(key, strcase.TitleCase, ' '),
			})
			pos = len(role.Categories) - 1
			index[key] = pos
		}
		pid := permissions.NormalizeID(permID)
		role.Categories[pos].Permissions = append(role.Categories[pos].Permissions, permissions.Permission{
			ID:      pid,
			Name:    strcase.ToCase(pid, strcase.TitleCase, ' '),
			Enabled: enabled,
		})
	}
	if _, err := permissions.NewMatrix(role.Categories); err != nil {
		return permissions.Role{}, fmt.Errorf("spotctl: role %s: %w", role.ID, err)
	}
	return role, nil
}

func loadOrInitManifest(path string) (*permissions.RoleManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &permissions.RoleManifest{
				Version: permissions.ManifestVersion,
				Roles:   []permissions.Role{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("spotctl: stat manifest: %w", err)
	}
	return permissions.ReadManifest(path)
}

func writeManifest(path string, doc *permissions.RoleManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("spotctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("spotctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return permissions.EncodeManifest(file, doc)
}
