package manifest

import (
	"bytes"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

// Environment variable names consumed by the RowCache binaries.
const (
	EnvDeployment        = "DEPLOYMENT"
	EnvAuthorityAddress  = "AUTHORITY_ADDRESS"
	EnvDatabaseType      = "DATABASE_TYPE"
	EnvListenAddress     = "LISTEN_ADDRESS"
	EnvQueryCaching      = "QUERY_CACHING"
	EnvQueryLog          = "QUERY_LOG"
	EnvStatementLogging  = "STATEMENT_LOGGING"
	EnvMetricsAddress    = "METRICS_ADDRESS"
	EnvUpstreamURL       = "UPSTREAM_DB_URL"
	EnvExternalAddress   = "EXTERNAL_ADDRESS"
	EnvDBDir             = "DB_DIR"
	EnvQuorum            = "QUORUM"
	EnvMemoryLimit       = "MEMORY_LIMIT"
	EnvReplicationTables = "REPLICATION_TABLES"
)

// upstreamSecretName is the secret holding the upstream database URL,
// provisioned by the operator out of band.
const upstreamSecretName = ChartName + "-upstream"

// Manifests holds the rendered objects for one deployment. Consensus
// fields are nil when an external authority is configured.
type Manifests struct {
	AdapterDeployment     *appsv1.Deployment
	AdapterService        *corev1.Service
	AdapterServiceAccount *corev1.ServiceAccount
	AdapterRole           *rbacv1.Role
	AdapterRoleBinding    *rbacv1.RoleBinding
	ServerStatefulSet     *appsv1.StatefulSet
	ServerService         *corev1.Service
	ConsensusStatefulSet  *appsv1.StatefulSet
	ConsensusService      *corev1.Service
}

type renderContext struct {
	cfg       *config.Config
	namespace string
}

// Render resolves the configuration into the full object set. The
// configuration is validated first; on any error nothing is emitted.
func Render(cfg *config.Config, namespace string) (*Manifests, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to render: %w", err)
	}

	rc := renderContext{cfg: cfg, namespace: namespace}
	m := &Manifests{}

	var err error
	if m.AdapterDeployment, err = rc.adapterDeployment(); err != nil {
		return nil, err
	}
	m.AdapterService = rc.adapterService()
	m.AdapterServiceAccount = rc.adapterServiceAccount()
	m.AdapterRole = rc.adapterRole()
	m.AdapterRoleBinding = rc.adapterRoleBinding()

	if m.ServerStatefulSet, err = rc.serverStatefulSet(); err != nil {
		return nil, err
	}
	m.ServerService = rc.serverService()

	if cfg.Consensus.Enabled {
		if m.ConsensusStatefulSet, err = rc.consensusStatefulSet(); err != nil {
			return nil, err
		}
		m.ConsensusService = rc.consensusService()
	}

	return m, nil
}

// Objects returns the rendered objects in a deterministic apply order:
// RBAC first, then the consensus store, server, and adapter.
func (m *Manifests) Objects() []runtime.Object {
	var objects []runtime.Object
	if m.AdapterServiceAccount != nil {
		objects = append(objects, m.AdapterServiceAccount)
	}
	if m.AdapterRole != nil {
		objects = append(objects, m.AdapterRole)
	}
	if m.AdapterRoleBinding != nil {
		objects = append(objects, m.AdapterRoleBinding)
	}
	if m.ConsensusService != nil {
		objects = append(objects, m.ConsensusService)
	}
	if m.ConsensusStatefulSet != nil {
		objects = append(objects, m.ConsensusStatefulSet)
	}
	if m.ServerService != nil {
		objects = append(objects, m.ServerService)
	}
	if m.ServerStatefulSet != nil {
		objects = append(objects, m.ServerStatefulSet)
	}
	if m.AdapterService != nil {
		objects = append(objects, m.AdapterService)
	}
	if m.AdapterDeployment != nil {
		objects = append(objects, m.AdapterDeployment)
	}
	return objects
}

// EncodeYAML serializes the rendered objects to a multi-document stream.
func (m *Manifests) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	for _, obj := range m.Objects() {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		if buf.Len() > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// objectMeta builds standard metadata for a rendered object.
func (rc renderContext) objectMeta(name, component string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      name,
		Namespace: rc.namespace,
		Labels:    Labels(rc.cfg, component),
	}
}

// authorityAddress returns the consensus endpoint the adapter and server
// connect to: the external address when supplied, the bundled store's
// service otherwise.
func (rc renderContext) authorityAddress() string {
	if rc.cfg.Deployment.AuthorityAddress != "" {
		return rc.cfg.Deployment.AuthorityAddress
	}
	return fmt.Sprintf("%s.%s.svc.cluster.local:8500", ConsensusName, rc.namespace)
}

// imageRef joins repository and tag, defaulting the tag to the app version.
func imageRef(img config.ImageConfig, defaultTag string) string {
	tag := img.Tag
	if tag == "" {
		tag = defaultTag
	}
	return img.Repository + ":" + tag
}

// upstreamURLVar references the upstream database URL secret.
func upstreamURLVar() corev1.EnvVar {
	return corev1.EnvVar{
		Name: EnvUpstreamURL,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: upstreamSecretName},
				Key:                  "url",
			},
		},
	}
}
