package manifest

import (
	"fmt"
	"maps"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/rowcache/rowcache-deploy/internal/config"
)

// adapterEnv builds the adapter container environment.
func (rc renderContext) adapterEnv() *EnvSet {
	cfg := rc.cfg

	env := NewEnvSet()
	env.Set(EnvDeployment, cfg.Deployment.Name)
	env.Set(EnvDatabaseType, cfg.Adapter.DatabaseType)
	env.Set(EnvAuthorityAddress, rc.authorityAddress())
	env.Set(EnvListenAddress, fmt.Sprintf("0.0.0.0:%d", cfg.Adapter.Service.Port))
	env.Set(EnvQueryCaching, cfg.Deployment.QueryCachingMode)
	env.Set(EnvQueryLog, strconv.FormatBool(cfg.Adapter.QueryLog))
	env.Set(EnvStatementLogging, strconv.FormatBool(cfg.Adapter.StatementLogging))
	env.Set(EnvMetricsAddress, fmt.Sprintf("0.0.0.0:%d", cfg.Adapter.Service.MetricsPort))
	env.SetVar(upstreamURLVar())
	return env
}

// adapterDeployment renders the wire-protocol adapter tier.
func (rc renderContext) adapterDeployment() (*appsv1.Deployment, error) {
	cfg := rc.cfg

	resources, err := requirements("adapter.resources", cfg.Adapter.Resources)
	if err != nil {
		return nil, err
	}

	protoPort := protocolPortName(cfg.Adapter.DatabaseType)
	adapter := corev1.Container{
		Name:  AdapterName,
		Image: imageRef(cfg.Adapter.Image, AppVersion),
		Env:   rc.adapterEnv().List(),
		Ports: []corev1.ContainerPort{
			{Name: protoPort, ContainerPort: cfg.Adapter.Service.Port, Protocol: corev1.ProtocolTCP},
			{Name: "metrics", ContainerPort: cfg.Adapter.Service.MetricsPort, Protocol: corev1.ProtocolTCP},
		},
		ReadinessProbe: tcpProbe(protoPort, 5, 5),
		LivenessProbe:  tcpProbe(protoPort, 10, 10),
		Resources:      resources,
	}

	var containers []corev1.Container
	if cfg.Consensus.Enabled {
		containers = append(containers, rc.consensusAgentContainer())
	}
	containers = append(containers, adapter)

	replicas := cfg.Adapter.Replicas
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: rc.objectMeta(AdapterName, "adapter"),
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selectorLabels(cfg, "adapter")},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: Labels(cfg, "adapter")},
				Spec: corev1.PodSpec{
					ServiceAccountName: AdapterName,
					Containers:         containers,
				},
			},
		},
	}, nil
}

// adapterService exposes the adapter with the configured type, port, and
// annotations.
func (rc renderContext) adapterService() *corev1.Service {
	cfg := rc.cfg

	protoPort := protocolPortName(cfg.Adapter.DatabaseType)
	svc := &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: rc.objectMeta(AdapterName, "adapter"),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceType(cfg.Adapter.Service.Type),
			Selector: selectorLabels(cfg, "adapter"),
			Ports: []corev1.ServicePort{
				{
					Name:       protoPort,
					Port:       cfg.Adapter.Service.Port,
					TargetPort: intstr.FromString(protoPort),
					Protocol:   corev1.ProtocolTCP,
				},
				{
					Name:       "metrics",
					Port:       cfg.Adapter.Service.MetricsPort,
					TargetPort: intstr.FromString("metrics"),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
	if len(cfg.Adapter.Service.Annotations) > 0 {
		svc.Annotations = maps.Clone(cfg.Adapter.Service.Annotations)
	}
	return svc
}

func (rc renderContext) adapterServiceAccount() *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: rc.objectMeta(AdapterName, "adapter"),
	}
}

// adapterRole grants the read access the adapter needs to discover server
// pods behind the headless service.
func (rc renderContext) adapterRole() *rbacv1.Role {
	return &rbacv1.Role{
		TypeMeta:   metav1.TypeMeta{APIVersion: "rbac.authorization.k8s.io/v1", Kind: "Role"},
		ObjectMeta: rc.objectMeta(AdapterName, "adapter"),
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{"pods", "endpoints"},
				Verbs:     []string{"get", "list", "watch"},
			},
		},
	}
}

func (rc renderContext) adapterRoleBinding() *rbacv1.RoleBinding {
	return &rbacv1.RoleBinding{
		TypeMeta:   metav1.TypeMeta{APIVersion: "rbac.authorization.k8s.io/v1", Kind: "RoleBinding"},
		ObjectMeta: rc.objectMeta(AdapterName, "adapter"),
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "Role",
			Name:     AdapterName,
		},
		Subjects: []rbacv1.Subject{
			{
				Kind:      rbacv1.ServiceAccountKind,
				Name:      AdapterName,
				Namespace: rc.namespace,
			},
		},
	}
}

// protocolPortName names the client-facing port after the wire protocol.
func protocolPortName(databaseType string) string {
	if databaseType == config.DatabaseMySQL {
		return "mysql"
	}
	return "postgres"
}

func tcpProbe(port string, initialDelay, period int32) *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromString(port)},
		},
		InitialDelaySeconds: initialDelay,
		PeriodSeconds:       period,
	}
}
