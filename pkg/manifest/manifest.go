// Package manifest loads declarative organization manifests. A manifest
// describes organizations with their domains, roles, group trees and
// pending invitations; loading is idempotent, so the same file can be
// applied repeatedly.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the root of a manifest document
type Manifest struct {
	Realm         string         `yaml:"realm"`
	Organizations []Organization `yaml:"organizations"`
}

// Organization declares one organization and everything beneath it
type Organization struct {
	Name        string       `yaml:"name"`
	DisplayName string       `yaml:"display_name,omitempty"`
	URL         string       `yaml:"url,omitempty"`
	Domains     []string     `yaml:"domains,omitempty"`
	CreatedBy   string       `yaml:"created_by,omitempty"`
	Roles       []Role       `yaml:"roles,omitempty"`
	Groups      []Group      `yaml:"groups,omitempty"`
	Invitations []Invitation `yaml:"invitations,omitempty"`
}

// Role declares a role. The scalar form carries just the name.
type Role struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// UnmarshalYAML for Role handles both scalar (just name) and mapping forms
func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.Name = value.Value
		return nil
	}
	type roleAlias Role
	return value.Decode((*roleAlias)(r))
}

// Group declares a group node. Nested groups become children.
type Group struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Attributes  map[string][]string `yaml:"attributes,omitempty"`
	Roles       []string            `yaml:"roles,omitempty"`
	Groups      []Group             `yaml:"groups,omitempty"`
}

// Invitation declares a pending invitation
type Invitation struct {
	Email   string   `yaml:"email"`
	Inviter string   `yaml:"inviter,omitempty"`
	Roles   []string `yaml:"roles,omitempty"`
}

// Parse parses a manifest document
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile parses a manifest file
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data)
}

func (m *Manifest) validate() error {
	if m.Realm == "" {
		return fmt.Errorf("manifest is missing a realm")
	}
	for _, org := range m.Organizations {
		if org.Name == "" {
			return fmt.Errorf("organization is missing a name")
		}
		if err := validateGroups(org.Name, org.Groups); err != nil {
			return err
		}
		for _, role := range org.Roles {
			if role.Name == "" {
				return fmt.Errorf("organization %s has a role without a name", org.Name)
			}
		}
		for _, inv := range org.Invitations {
			if inv.Email == "" {
				return fmt.Errorf("organization %s has an invitation without an email", org.Name)
			}
		}
	}
	return nil
}

func validateGroups(orgName string, groups []Group) error {
	seen := map[string]bool{}
	for _, group := range groups {
		if group.Name == "" {
			return fmt.Errorf("organization %s has a group without a name", orgName)
		}
		if seen[group.Name] {
			return fmt.Errorf("organization %s declares sibling groups both named %s", orgName, group.Name)
		}
		seen[group.Name] = true
		if err := validateGroups(orgName, group.Groups); err != nil {
			return err
		}
	}
	return nil
}
