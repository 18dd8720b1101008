// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/profile.yaml
var defaultProfile []byte

// Profile is the marketing content of the site: who the owner is, what they
// offer and how to reach them. It feeds the home, about, services and
// contact pages as well as the /api/about endpoint.
type Profile struct {
	Name        string    `yaml:"name" json:"name"`
	Tagline     string    `yaml:"tagline" json:"tagline"`
	Description string    `yaml:"description" json:"description"`
	About       []string  `yaml:"about" json:"about"`
	Skills      []string  `yaml:"skills" json:"skills"`
	Services    []Service `yaml:"services" json:"services"`
	Contact     Contact   `yaml:"contact" json:"contact"`
}

// Service is one offering listed on the services page.
type Service struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Contact holds the public contact details and social links.
type Contact struct {
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone,omitempty"`
	Location string `yaml:"location" json:"location,omitempty"`
	GitHub   string `yaml:"github" json:"github,omitempty"`
	LinkedIn string `yaml:"linkedin" json:"linkedin,omitempty"`
	Twitter  string `yaml:"twitter" json:"twitter,omitempty"`
}

// LoadProfile parses the embedded default profile and, when path is set,
// overlays the file at path on top of it. Fields missing from the file keep
// their default values.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(defaultProfile, p); err != nil {
		return nil, fmt.Errorf("parse default profile: %w", err)
	}

	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile %s: name is required", path)
	}
	return p, nil
}
