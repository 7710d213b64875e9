package config

import (
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/api/resource"
)

// ValidCachingModes enumerates the accepted query_caching_mode values.
var ValidCachingModes = map[string]bool{
	CachingExplicit:      true,
	CachingAsync:         true,
	CachingInRequestPath: true,
}

// ValidDatabaseTypes enumerates the accepted database_type values.
var ValidDatabaseTypes = map[string]bool{
	DatabasePostgreSQL: true,
	DatabaseMySQL:      true,
}

// Validate checks the resolved configuration and returns a detailed error
// naming the offending path if validation fails.
func (c *Config) Validate() error {
	if c.Deployment.Name == "" {
		return fmt.Errorf("deployment.name is required")
	}
	if err := validateDeploymentName(c.Deployment.Name); err != nil {
		return fmt.Errorf("deployment.name: %w", err)
	}

	if !ValidCachingModes[c.Deployment.QueryCachingMode] {
		return fmt.Errorf("deployment.query_caching_mode: invalid value %q: must be one of %v",
			c.Deployment.QueryCachingMode, sortedKeys(ValidCachingModes))
	}

	if !ValidDatabaseTypes[c.Adapter.DatabaseType] {
		return fmt.Errorf("adapter.database_type: invalid value %q: must be one of %v",
			c.Adapter.DatabaseType, sortedKeys(ValidDatabaseTypes))
	}
	if !ValidDatabaseTypes[c.Server.DatabaseType] {
		return fmt.Errorf("server.database_type: invalid value %q: must be one of %v",
			c.Server.DatabaseType, sortedKeys(ValidDatabaseTypes))
	}

	if err := c.validateAuthority(); err != nil {
		return err
	}

	if c.Server.Replicas < 1 {
		return fmt.Errorf("server.replicas must be at least 1, got %d", c.Server.Replicas)
	}
	if c.Adapter.Replicas < 1 {
		return fmt.Errorf("adapter.replicas must be at least 1, got %d", c.Adapter.Replicas)
	}

	if err := validateResources("adapter.resources", c.Adapter.Resources); err != nil {
		return err
	}
	if err := validateResources("server.resources", c.Server.Resources); err != nil {
		return err
	}
	if err := validateResources("consensus.resources", c.Consensus.Resources); err != nil {
		return err
	}

	return nil
}

// validateAuthority enforces that exactly one of the bundled consensus
// store and an external authority address is configured, and that a
// bundled store has a reachable quorum.
func (c *Config) validateAuthority() error {
	bundled := c.Consensus.Enabled
	external := c.Deployment.AuthorityAddress != ""

	switch {
	case bundled && external:
		return fmt.Errorf("consensus.enabled and deployment.authority_address are mutually exclusive: disable the bundled consensus store or clear the external address")
	case !bundled && !external:
		return fmt.Errorf("no authority configured: enable consensus.enabled or set deployment.authority_address")
	}

	if bundled {
		if c.Consensus.Replicas < 1 {
			return fmt.Errorf("consensus.replicas must be at least 1, got %d", c.Consensus.Replicas)
		}
		if c.Consensus.Quorum < 1 {
			return fmt.Errorf("consensus.quorum must be at least 1, got %d", c.Consensus.Quorum)
		}
		if c.Consensus.Quorum > c.Consensus.Replicas {
			return fmt.Errorf("consensus.quorum (%d) must not exceed consensus.replicas (%d)",
				c.Consensus.Quorum, c.Consensus.Replicas)
		}
	}

	return nil
}

// validateDeploymentName checks DNS-label safety; the name ends up in
// object names and the instance label.
func validateDeploymentName(name string) error {
	if len(name) > 63 {
		return fmt.Errorf("must be 63 characters or less")
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("can only contain lowercase letters, numbers, and hyphens")
		}
	}
	if name[0] == '-' || name[len(name)-1] == '-' {
		return fmt.Errorf("cannot start or end with a hyphen")
	}
	return nil
}

// validateResources checks that every non-empty quantity parses.
func validateResources(path string, rc ResourceConfig) error {
	lists := []struct {
		name string
		list ResourceList
	}{
		{"requests", rc.Requests},
		{"limits", rc.Limits},
	}
	for _, l := range lists {
		entries := []struct {
			name  string
			value string
		}{
			{"cpu", l.list.CPU},
			{"memory", l.list.Memory},
			{"storage", l.list.Storage},
		}
		for _, e := range entries {
			if e.value == "" {
				continue
			}
			if _, err := resource.ParseQuantity(e.value); err != nil {
				return fmt.Errorf("%s.%s.%s: invalid quantity %q: %w", path, l.name, e.name, e.value, err)
			}
		}
	}
	return nil
}

// sortedKeys returns map keys sorted for stable error messages.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
