package config

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"
)

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Name             string
	DatabaseType     string
	CachingMode      string
	BundledConsensus bool
	AuthorityAddress string
	ServerMemory     string
}

// RunWizard walks the user through the handful of choices that matter for
// a first deployment and returns the result.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		DatabaseType:     DatabasePostgreSQL,
		CachingMode:      CachingExplicit,
		BundledConsensus: true,
		ServerMemory:     "4Gi",
	}

	form := huh.NewForm(
		// Deployment identity
		huh.NewGroup(
			huh.NewInput().
				Title("Deployment name").
				Description("A unique name for this deployment (DNS-safe, lowercase)").
				Placeholder("my-cache").
				Value(&result.Name).
				Validate(validateWizardName),
		),

		// Upstream protocol
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Database type").
				Description("Wire protocol spoken by the upstream database").
				Options(
					huh.NewOption("PostgreSQL", DatabasePostgreSQL),
					huh.NewOption("MySQL", DatabaseMySQL),
				).
				Value(&result.DatabaseType),
		),

		// Caching mode
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Query caching mode").
				Description("explicit: cache on CREATE CACHE | async: populate in background | in-request-path: populate on first miss").
				Options(
					huh.NewOption("Explicit", CachingExplicit),
					huh.NewOption("Async", CachingAsync),
					huh.NewOption("In request path", CachingInRequestPath),
				).
				Value(&result.CachingMode),
		),

		// Authority
		huh.NewGroup(
			huh.NewConfirm().
				Title("Deploy the bundled consensus store?").
				Description("Choose no to point at an externally operated one").
				Value(&result.BundledConsensus),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Authority address").
				Description("Address of the external consensus store").
				Placeholder("consul.shared.svc.cluster.local:8500").
				Value(&result.AuthorityAddress).
				Validate(validateAuthorityAddress),
		).WithHideFunc(func() bool { return result.BundledConsensus }),

		// Server sizing
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Server memory limit").
				Description("Mirrored into the memory request so the server is never evicted").
				Options(
					huh.NewOption("2Gi", "2Gi"),
					huh.NewOption("4Gi", "4Gi"),
					huh.NewOption("8Gi", "8Gi"),
					huh.NewOption("16Gi", "16Gi"),
				).
				Value(&result.ServerMemory),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig expands the wizard result over the defaults. The output is
// fully explicit so the written values file documents every tunable.
func (r *WizardResult) ToConfig() (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	cfg.Deployment.Name = r.Name
	cfg.Deployment.QueryCachingMode = r.CachingMode
	cfg.Adapter.DatabaseType = r.DatabaseType
	cfg.Server.DatabaseType = r.DatabaseType
	cfg.Server.Resources.Limits.Memory = r.ServerMemory

	if r.BundledConsensus {
		cfg.Consensus.Enabled = true
		cfg.Deployment.AuthorityAddress = ""
	} else {
		cfg.Consensus.Enabled = false
		cfg.Deployment.AuthorityAddress = r.AuthorityAddress
	}

	// The adapter speaks the protocol's well-known port.
	if r.DatabaseType == DatabaseMySQL {
		cfg.Adapter.Service.Port = 3306
	} else {
		cfg.Adapter.Service.Port = 5432
	}

	return cfg, nil
}

// WriteValuesYAML writes the configuration to a values file.
func WriteValuesYAML(cfg *Config, path string) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write values file: %w", err)
	}
	return nil
}

func validateWizardName(s string) error {
	if s == "" {
		return fmt.Errorf("deployment name is required")
	}
	return validateDeploymentName(s)
}

func validateAuthorityAddress(s string) error {
	if s == "" {
		return fmt.Errorf("authority address is required when the bundled consensus store is disabled")
	}
	return nil
}
