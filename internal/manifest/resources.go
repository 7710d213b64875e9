package manifest

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

// requirements maps a resource block onto container requirements. A set
// memory limit is mirrored into the memory request so the scheduler never
// places the pod where it can be evicted for memory pressure.
func requirements(path string, rc config.ResourceConfig) (corev1.ResourceRequirements, error) {
	requests, err := parseResourceList(path+".requests", rc.Requests)
	if err != nil {
		return corev1.ResourceRequirements{}, err
	}
	limits, err := parseResourceList(path+".limits", rc.Limits)
	if err != nil {
		return corev1.ResourceRequirements{}, err
	}

	if memLimit, ok := limits[corev1.ResourceMemory]; ok {
		if requests == nil {
			requests = corev1.ResourceList{}
		}
		requests[corev1.ResourceMemory] = memLimit
	}

	return corev1.ResourceRequirements{Requests: requests, Limits: limits}, nil
}

// parseResourceList converts cpu/memory entries; storage is handled
// separately through volume claims.
func parseResourceList(path string, rl config.ResourceList) (corev1.ResourceList, error) {
	out := corev1.ResourceList{}
	if rl.CPU != "" {
		q, err := resource.ParseQuantity(rl.CPU)
		if err != nil {
			return nil, fmt.Errorf("%s.cpu: invalid quantity %q: %w", path, rl.CPU, err)
		}
		out[corev1.ResourceCPU] = q
	}
	if rl.Memory != "" {
		q, err := resource.ParseQuantity(rl.Memory)
		if err != nil {
			return nil, fmt.Errorf("%s.memory: invalid quantity %q: %w", path, rl.Memory, err)
		}
		out[corev1.ResourceMemory] = q
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// storageRequest returns the persistent volume claim size for a
// component, or nil when the values leave storage to the platform.
func storageRequest(path string, rc config.ResourceConfig) (*resource.Quantity, error) {
	if rc.Requests.Storage == "" {
		return nil, nil
	}
	q, err := resource.ParseQuantity(rc.Requests.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s.requests.storage: invalid quantity %q: %w", path, rc.Requests.Storage, err)
	}
	return &q, nil
}

// memoryLimitBytes reports the memory limit in bytes for components that
// self-limit through their environment.
func memoryLimitBytes(rc config.ResourceConfig) (int64, bool) {
	if rc.Limits.Memory == "" {
		return 0, false
	}
	q, err := resource.ParseQuantity(rc.Limits.Memory)
	if err != nil {
		return 0, false
	}
	return q.Value(), true
}
