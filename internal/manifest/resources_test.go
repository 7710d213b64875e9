package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

func TestRequirements_MirrorsMemoryLimit(t *testing.T) {
	rc := config.ResourceConfig{
		Requests: config.ResourceList{CPU: "1", Memory: "2Gi"},
		Limits:   config.ResourceList{Memory: "8Gi"},
	}

	reqs, err := requirements("server.resources", rc)
	require.NoError(t, err)

	memRequest := reqs.Requests[corev1.ResourceMemory]
	memLimit := reqs.Limits[corev1.ResourceMemory]
	assert.Equal(t, memLimit.String(), memRequest.String())
	assert.Equal(t, "8Gi", memRequest.String())

	// CPU request untouched, no CPU limit introduced.
	cpu := reqs.Requests[corev1.ResourceCPU]
	wantCPU := resource.MustParse("1")
	assert.Equal(t, wantCPU.String(), cpu.String())
	_, hasCPULimit := reqs.Limits[corev1.ResourceCPU]
	assert.False(t, hasCPULimit)
}

func TestRequirements_LimitOnly(t *testing.T) {
	rc := config.ResourceConfig{
		Limits: config.ResourceList{Memory: "1Gi"},
	}

	reqs, err := requirements("x", rc)
	require.NoError(t, err)

	// Mirroring creates the request list when it did not exist.
	memRequest := reqs.Requests[corev1.ResourceMemory]
	assert.Equal(t, "1Gi", memRequest.String())
}

func TestRequirements_Empty(t *testing.T) {
	reqs, err := requirements("x", config.ResourceConfig{})
	require.NoError(t, err)
	assert.Nil(t, reqs.Requests)
	assert.Nil(t, reqs.Limits)
}

func TestRequirements_InvalidQuantity(t *testing.T) {
	rc := config.ResourceConfig{
		Requests: config.ResourceList{CPU: "lots"},
	}

	_, err := requirements("server.resources", rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `server.resources.requests.cpu: invalid quantity "lots"`)
}

func TestStorageRequest(t *testing.T) {
	rc := config.ResourceConfig{
		Requests: config.ResourceList{Storage: "50Gi"},
	}

	q, err := storageRequest("server.resources", rc)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "50Gi", q.String())

	q, err = storageRequest("server.resources", config.ResourceConfig{})
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestMemoryLimitBytes(t *testing.T) {
	bytes, ok := memoryLimitBytes(config.ResourceConfig{
		Limits: config.ResourceList{Memory: "4Gi"},
	})
	require.True(t, ok)
	assert.Equal(t, int64(4294967296), bytes)

	_, ok = memoryLimitBytes(config.ResourceConfig{})
	assert.False(t, ok)
}
