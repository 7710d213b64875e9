package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

var (
	validColorGreen = lipgloss.Color("#22c55e")
	validColorDim   = lipgloss.Color("#6b7280")

	validOKStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(validColorGreen)

	validDimStyle = lipgloss.NewStyle().
			Foreground(validColorDim)
)

// Validate resolves the configuration and prints a summary; any schema or
// invariant violation surfaces as the returned error.
func Validate(valuesFiles, set []string) error {
	cfg, err := loadConfig(valuesFiles, set)
	if err != nil {
		return err
	}

	fmt.Println(validOKStyle.Render("✓ configuration is valid"))
	fmt.Print(renderValidationSummary(cfg))
	return nil
}

// renderValidationSummary produces a short styled description of the
// resolved configuration.
func renderValidationSummary(cfg *config.Config) string {
	var b strings.Builder

	authority := "bundled consensus store"
	if cfg.Deployment.AuthorityAddress != "" {
		authority = "external: " + cfg.Deployment.AuthorityAddress
	}

	b.WriteString(validDimStyle.Render(fmt.Sprintf("  deployment:    %s", cfg.Deployment.Name)))
	b.WriteString("\n")
	b.WriteString(validDimStyle.Render(fmt.Sprintf("  caching mode:  %s", cfg.Deployment.QueryCachingMode)))
	b.WriteString("\n")
	b.WriteString(validDimStyle.Render(fmt.Sprintf("  database:      %s", cfg.Adapter.DatabaseType)))
	b.WriteString("\n")
	b.WriteString(validDimStyle.Render(fmt.Sprintf("  authority:     %s", authority)))
	b.WriteString("\n")
	if len(cfg.Server.ReplicationTables) > 0 {
		b.WriteString(validDimStyle.Render(fmt.Sprintf("  replication:   %s", strings.Join(cfg.Server.ReplicationTables, ", "))))
		b.WriteString("\n")
	}

	return b.String()
}
