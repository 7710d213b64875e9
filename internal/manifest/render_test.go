package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

const testNamespace = "rowcache-test"

// testConfig returns a valid default configuration for rendering tests.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Deployment.Name = "test-cache"
	return cfg
}

// render is a shorthand that fails the test on any render error.
func render(t *testing.T, cfg *config.Config) *Manifests {
	t.Helper()
	m, err := Render(cfg, testNamespace)
	require.NoError(t, err)
	return m
}

// containerByName finds a container in a pod spec by name.
func containerByName(t *testing.T, containers []corev1.Container, name string) corev1.Container {
	t.Helper()
	for _, c := range containers {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("container %q not found", name)
	return corev1.Container{}
}

func TestRender_DefaultObjectSet(t *testing.T) {
	m := render(t, testConfig(t))

	objects := m.Objects()
	require.Len(t, objects, 9)

	require.NotNil(t, m.ConsensusStatefulSet)
	require.NotNil(t, m.ConsensusService)
	require.NotNil(t, m.AdapterDeployment)
	require.NotNil(t, m.ServerStatefulSet)
}

func TestRender_EveryObjectCarriesIdentity(t *testing.T) {
	m := render(t, testConfig(t))

	for _, obj := range m.Objects() {
		meta, ok := obj.(metav1.Object)
		require.True(t, ok)

		assert.Equal(t, testNamespace, meta.GetNamespace(), meta.GetName())

		labels := meta.GetLabels()
		assert.Equal(t, "test-cache", labels["app.kubernetes.io/instance"], meta.GetName())
		assert.Equal(t, ChartName, labels["app.kubernetes.io/name"], meta.GetName())
		assert.Equal(t, "rowcache-0.8.0", labels["helm.sh/chart"], meta.GetName())
		assert.Equal(t, AppVersion, labels["app.kubernetes.io/version"], meta.GetName())
		assert.NotEmpty(t, labels["app.kubernetes.io/component"], meta.GetName())
	}
}

func TestRender_InvalidConfigFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Deployment.QueryCachingMode = "sometimes"

	m, err := Render(cfg, testNamespace)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "refusing to render")
	assert.Contains(t, err.Error(), "deployment.query_caching_mode")
}

func TestRender_BundledAuthorityAddress(t *testing.T) {
	m := render(t, testConfig(t))

	env := EnvSetFrom(containerByName(t, m.AdapterDeployment.Spec.Template.Spec.Containers, AdapterName).Env)
	assert.Equal(t,
		"rowcache-consensus.rowcache-test.svc.cluster.local:8500",
		env.Value(EnvAuthorityAddress))
}

func TestRender_ExternalAuthority(t *testing.T) {
	cfg := testConfig(t)
	cfg.Consensus.Enabled = false
	cfg.Deployment.AuthorityAddress = "consul.shared.svc:8500"

	m := render(t, cfg)

	assert.Nil(t, m.ConsensusStatefulSet)
	assert.Nil(t, m.ConsensusService)
	assert.Len(t, m.Objects(), 7)

	// No sidecar: the adapter and server pods run a single container,
	// pointed straight at the external address.
	adapterContainers := m.AdapterDeployment.Spec.Template.Spec.Containers
	require.Len(t, adapterContainers, 1)
	env := EnvSetFrom(adapterContainers[0].Env)
	assert.Equal(t, "consul.shared.svc:8500", env.Value(EnvAuthorityAddress))

	serverContainers := m.ServerStatefulSet.Spec.Template.Spec.Containers
	require.Len(t, serverContainers, 1)
	env = EnvSetFrom(serverContainers[0].Env)
	assert.Equal(t, "consul.shared.svc:8500", env.Value(EnvAuthorityAddress))
}

func TestRender_BundledConsensusSidecars(t *testing.T) {
	m := render(t, testConfig(t))

	for _, spec := range []corev1.PodSpec{
		m.AdapterDeployment.Spec.Template.Spec,
		m.ServerStatefulSet.Spec.Template.Spec,
	} {
		require.Len(t, spec.Containers, 2)
		sidecar := containerByName(t, spec.Containers, "consensus-agent")
		assert.Contains(t, sidecar.Args, "agent")
		assert.Contains(t, sidecar.Args,
			"-retry-join=rowcache-consensus.rowcache-test.svc.cluster.local")
	}
}

func TestRender_CachingModePropagates(t *testing.T) {
	for mode := range config.ValidCachingModes {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Deployment.QueryCachingMode = mode

			m := render(t, cfg)
			env := EnvSetFrom(containerByName(t, m.AdapterDeployment.Spec.Template.Spec.Containers, AdapterName).Env)
			assert.Equal(t, mode, env.Value(EnvQueryCaching))
		})
	}
}

func TestRender_ImageTagDefaultsToAppVersion(t *testing.T) {
	m := render(t, testConfig(t))

	adapter := containerByName(t, m.AdapterDeployment.Spec.Template.Spec.Containers, AdapterName)
	assert.Equal(t, "docker.io/rowcache/rowcache-adapter:"+AppVersion, adapter.Image)

	server := containerByName(t, m.ServerStatefulSet.Spec.Template.Spec.Containers, ServerName)
	assert.Equal(t, "docker.io/rowcache/rowcache-server:"+AppVersion, server.Image)
}

func TestRender_ImageTagOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.Adapter.Image.Tag = "1.5.0-rc1"

	m := render(t, cfg)
	adapter := containerByName(t, m.AdapterDeployment.Spec.Template.Spec.Containers, AdapterName)
	assert.Equal(t, "docker.io/rowcache/rowcache-adapter:1.5.0-rc1", adapter.Image)
}

func TestEncodeYAML(t *testing.T) {
	m := render(t, testConfig(t))

	data, err := m.EncodeYAML()
	require.NoError(t, err)

	docs := strings.Split(string(data), "---\n")
	assert.Len(t, docs, 9)
	assert.Contains(t, string(data), "kind: Deployment")
	assert.Contains(t, string(data), "kind: StatefulSet")
	assert.Contains(t, string(data), "kind: RoleBinding")
	assert.Contains(t, string(data), "namespace: "+testNamespace)
}

func TestChartLabel(t *testing.T) {
	assert.Equal(t, "rowcache-0.8.0", ChartLabel())
}
