package manifest

import "github.com/rowcache/rowcache-deploy/internal/config"

// Workload object names.
const (
	AdapterName   = ChartName + "-adapter"
	ServerName    = ChartName + "-server"
	ConsensusName = ChartName + "-consensus"
)

// Labels returns the standard label set for a rendered object. The
// instance label carries the deployment identity from the values.
func Labels(cfg *config.Config, component string) map[string]string {
	labels := selectorLabels(cfg, component)
	labels["helm.sh/chart"] = ChartLabel()
	labels["app.kubernetes.io/version"] = AppVersion
	labels["app.kubernetes.io/managed-by"] = "rowcache-deploy"
	return labels
}

// selectorLabels is the stable subset used for pod selectors; selectors
// are immutable, so nothing version-shaped belongs here.
func selectorLabels(cfg *config.Config, component string) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":      ChartName,
		"app.kubernetes.io/instance":  cfg.Deployment.Name,
		"app.kubernetes.io/component": component,
	}
}
