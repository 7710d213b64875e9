package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

func TestValidate_ValidConfig(t *testing.T) {
	saveAndRestoreFactories(t)

	err := Validate(nil, []string{"deployment.name=my-cache"})
	assert.NoError(t, err)
}

func TestValidate_InvalidConfig(t *testing.T) {
	saveAndRestoreFactories(t)

	err := Validate(nil, []string{
		"deployment.name=my-cache",
		"deployment.query_caching_mode=eager",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployment.query_caching_mode")
}

func TestValidate_UnknownPath(t *testing.T) {
	saveAndRestoreFactories(t)

	err := Validate(nil, []string{"deployment.nmae=my-cache"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown configuration path "deployment.nmae"`)
}

func TestRenderValidationSummary(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Deployment.Name = "my-cache"

	summary := renderValidationSummary(cfg)
	assert.Contains(t, summary, "my-cache")
	assert.Contains(t, summary, "bundled consensus store")
	assert.NotContains(t, summary, "replication:")

	cfg.Consensus.Enabled = false
	cfg.Deployment.AuthorityAddress = "consul.shared.svc:8500"
	cfg.Server.ReplicationTables = []string{"public.users"}

	summary = renderValidationSummary(cfg)
	assert.Contains(t, summary, "external: consul.shared.svc:8500")
	assert.Contains(t, summary, "public.users")
}
