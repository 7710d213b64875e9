package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeValuesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Deployment.Name)
	assert.Equal(t, CachingExplicit, cfg.Deployment.QueryCachingMode)
	assert.Equal(t, DatabasePostgreSQL, cfg.Adapter.DatabaseType)
	assert.Equal(t, int32(5432), cfg.Adapter.Service.Port)
	assert.True(t, cfg.Consensus.Enabled)
	assert.Equal(t, int32(3), cfg.Consensus.Replicas)
	assert.Equal(t, int32(2), cfg.Consensus.Quorum)
	assert.Empty(t, cfg.Server.ReplicationTables)
	assert.Equal(t, "4Gi", cfg.Server.Resources.Limits.Memory)
}

func TestLoad_SetOverrides(t *testing.T) {
	cfg, err := Load(nil, []string{
		"deployment.name=my-cache",
		"deployment.query_caching_mode=async",
		"adapter.database_type=mysql",
	})
	require.NoError(t, err)

	assert.Equal(t, "my-cache", cfg.Deployment.Name)
	assert.Equal(t, CachingAsync, cfg.Deployment.QueryCachingMode)
	assert.Equal(t, DatabaseMySQL, cfg.Adapter.DatabaseType)
	// Untouched defaults survive the merge.
	assert.Equal(t, DatabasePostgreSQL, cfg.Server.DatabaseType)
	assert.True(t, cfg.Consensus.Enabled)
}

func TestLoad_SparseOverrideKeepsDefaults(t *testing.T) {
	cfg, err := Load(nil, []string{"deployment.name=my-cache"})
	require.NoError(t, err)

	// A single overridden leaf must not disturb anything else, at any
	// nesting level.
	assert.Equal(t, "my-cache", cfg.Deployment.Name)
	assert.Equal(t, CachingExplicit, cfg.Deployment.QueryCachingMode)
	assert.Equal(t, DatabasePostgreSQL, cfg.Adapter.DatabaseType)
	assert.Equal(t, "docker.io/rowcache/rowcache-adapter", cfg.Adapter.Image.Repository)
	assert.Equal(t, int32(5432), cfg.Adapter.Service.Port)
	assert.Equal(t, "500m", cfg.Adapter.Resources.Requests.CPU)
	assert.Equal(t, int32(1), cfg.Server.Replicas)
	assert.Equal(t, "50Gi", cfg.Server.Resources.Requests.Storage)
	assert.True(t, cfg.Consensus.Enabled)
	assert.Equal(t, int32(3), cfg.Consensus.Replicas)
	assert.Equal(t, "1.15", cfg.Consensus.Image.Tag)
}

func TestLoad_ExternalAuthority(t *testing.T) {
	cfg, err := Load(nil, []string{
		"deployment.name=my-cache",
		"deployment.authority_address=consul.shared.svc:8500",
		"consensus.enabled=false",
	})
	require.NoError(t, err)

	assert.False(t, cfg.Consensus.Enabled, "explicit false must override the enabled default")
	assert.Equal(t, "consul.shared.svc:8500", cfg.Deployment.AuthorityAddress)
}

func TestLoad_ValuesFile(t *testing.T) {
	path := writeValuesFile(t, `
deployment:
  name: file-cache
server:
  replication_tables:
    - public.users
    - public.orders
  resources:
    limits:
      memory: 8Gi
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "file-cache", cfg.Deployment.Name)
	assert.Equal(t, []string{"public.users", "public.orders"}, cfg.Server.ReplicationTables)
	assert.Equal(t, "8Gi", cfg.Server.Resources.Limits.Memory)
	// Sibling defaults under the overridden blocks are untouched.
	assert.Equal(t, "docker.io/rowcache/rowcache-server", cfg.Server.Image.Repository)
	assert.Equal(t, "50Gi", cfg.Server.Resources.Requests.Storage)
}

func TestLoad_FilesMergeInOrder(t *testing.T) {
	base := writeValuesFile(t, `
deployment:
  name: base-cache
  query_caching_mode: async
`)
	override := writeValuesFile(t, `
deployment:
  query_caching_mode: explicit
`)

	cfg, err := Load([]string{base, override}, nil)
	require.NoError(t, err)

	assert.Equal(t, "base-cache", cfg.Deployment.Name)
	assert.Equal(t, CachingExplicit, cfg.Deployment.QueryCachingMode)
}

func TestLoad_SetWinsOverFiles(t *testing.T) {
	path := writeValuesFile(t, `
deployment:
  name: file-cache
  query_caching_mode: async
`)

	cfg, err := Load([]string{path}, []string{"deployment.query_caching_mode=in-request-path"})
	require.NoError(t, err)

	assert.Equal(t, CachingInRequestPath, cfg.Deployment.QueryCachingMode)
}

func TestLoad_ArraysReplacedWholesale(t *testing.T) {
	path := writeValuesFile(t, `
deployment:
  name: my-cache
server:
  replication_tables:
    - public.users
    - public.orders
`)

	cfg, err := Load([]string{path}, []string{"server.replication_tables={public.events}"})
	require.NoError(t, err)

	assert.Equal(t, []string{"public.events"}, cfg.Server.ReplicationTables)
}

func TestLoad_UnknownSetPathFails(t *testing.T) {
	_, err := Load(nil, []string{
		"deployment.name=my-cache",
		"deployment.cachingmode=async",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown configuration path "deployment.cachingmode"`)
}

func TestLoad_UnknownFilePathFails(t *testing.T) {
	path := writeValuesFile(t, `
deployment:
  name: my-cache
sever:
  replicas: 3
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown configuration path "sever"`)
}

func TestLoad_UnknownNestedPathFails(t *testing.T) {
	path := writeValuesFile(t, `
deployment:
  name: my-cache
server:
  resources:
    limit:
      memory: 8Gi
`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown configuration path "server.resources.limit"`)
}

func TestLoad_AnnotationsAcceptArbitraryKeys(t *testing.T) {
	path := writeValuesFile(t, `
deployment:
  name: my-cache
adapter:
  service:
    annotations:
      service.beta.kubernetes.io/aws-load-balancer-internal: "true"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "true", cfg.Adapter.Service.Annotations["service.beta.kubernetes.io/aws-load-balancer-internal"])
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read values file")
}

func TestLoad_MalformedSetFails(t *testing.T) {
	_, err := Load(nil, []string{"deployment.name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--set")
}
