package routing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type RouteClass string

const (
	RouteClassPublicAPI RouteClass = "public_api"
	RouteClassOps       RouteClass = "ops"
	RouteClassStatic    RouteClass = "static"
	RouteClassUnknown   RouteClass = "unknown"
)

var ErrAllowlistNotFound = errors.New("routing allowlist not found")

type AllowlistRule struct {
	Prefix string     `yaml:"prefix"`
	Class  RouteClass `yaml:"class"`
}

type allowlistFile struct {
	Version int             `yaml:"version"`
	Rules   []AllowlistRule `yaml:"rules"`
}

// DefaultRules covers every surface the server exposes out of the box.
// An allowlist file only needs to exist when a deployment adds routes
// outside these prefixes.
func DefaultRules() []AllowlistRule {
	return []AllowlistRule{
		{Prefix: "/api/v1", Class: RouteClassPublicAPI},
		{Prefix: "/health", Class: RouteClassOps},
		{Prefix: "/metrics", Class: RouteClassOps},
		{Prefix: "/debug/prometheus", Class: RouteClassOps},
		{Prefix: "/static", Class: RouteClassStatic},
	}
}

// LoadAllowlist reads extra classification rules from the YAML file at
// path, or from ROUTING_ALLOWLIST_PATH when path is empty.
func LoadAllowlist(path string) ([]AllowlistRule, error) {
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("ROUTING_ALLOWLIST_PATH"))
	}
	if path == "" {
		return nil, ErrAllowlistNotFound
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAllowlistNotFound, path)
		}
		return nil, err
	}

	var file allowlistFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported allowlist version: %d", file.Version)
	}

	for i := range file.Rules {
		file.Rules[i].Prefix = strings.TrimSpace(file.Rules[i].Prefix)
		if file.Rules[i].Prefix == "" {
			return nil, fmt.Errorf("allowlist rule[%d]: empty prefix", i)
		}
		if !strings.HasPrefix(file.Rules[i].Prefix, "/") {
			return nil, fmt.Errorf("allowlist rule[%d]: prefix must start with '/': %q", i, file.Rules[i].Prefix)
		}
		switch file.Rules[i].Class {
		case RouteClassPublicAPI, RouteClassOps, RouteClassStatic, RouteClassUnknown:
		default:
			return nil, fmt.Errorf("allowlist rule[%d]: unknown class: %q", i, file.Rules[i].Class)
		}
	}

	return file.Rules, nil
}
