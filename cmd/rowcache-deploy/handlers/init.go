package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// writeValues writes the values file.
	writeValues = config.WriteValuesYAML
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	cfg, err := result.ToConfig()
	if err != nil {
		return fmt.Errorf("failed to build configuration: %w", err)
	}

	if err := writeValues(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write values file: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("rowcache-deploy - RowCache on Kubernetes")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This wizard creates a values file with sensible defaults.")
	fmt.Println("Just answer a few questions; everything can be edited later.")
	fmt.Println()
}

// printInitSuccess prints next steps after the values file is written.
func printInitSuccess(path string, cfg *config.Config) {
	fmt.Println()
	fmt.Println(validOKStyle.Render(fmt.Sprintf("✓ wrote %s", path)))
	fmt.Println(validDimStyle.Render(fmt.Sprintf("  deployment: %s", cfg.Deployment.Name)))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  rowcache-deploy validate -f %s\n", path)
	fmt.Printf("  rowcache-deploy render -f %s | kubectl apply -f -\n", path)
}
