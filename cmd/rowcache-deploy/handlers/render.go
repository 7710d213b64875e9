// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/rowcache/rowcache-deploy/internal/config"
	"github.com/rowcache/rowcache-deploy/internal/manifest"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig resolves defaults, values files, and --set overrides.
	loadConfig = config.Load

	// renderManifests resolves a configuration into objects.
	renderManifests = manifest.Render

	// writeFile writes data to a file.
	writeFile = os.WriteFile

	// stdout is where manifests go when no output file is given.
	stdout io.Writer = os.Stdout
)

// RenderOptions carries the render command's flags.
type RenderOptions struct {
	ValuesFiles []string
	Set         []string
	Namespace   string
	Output      string
}

// Render resolves the configuration and writes the manifest stream.
func Render(opts RenderOptions) error {
	cfg, err := loadConfig(opts.ValuesFiles, opts.Set)
	if err != nil {
		return err
	}

	manifests, err := renderManifests(cfg, opts.Namespace)
	if err != nil {
		return err
	}

	data, err := manifests.EncodeYAML()
	if err != nil {
		return err
	}

	if opts.Output == "" || opts.Output == "-" {
		_, err := stdout.Write(data)
		return err
	}

	if err := writeFile(opts.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifests: %w", err)
	}
	fmt.Printf("Wrote %d manifests for deployment %q to %s\n",
		len(manifests.Objects()), cfg.Deployment.Name, opts.Output)
	return nil
}
