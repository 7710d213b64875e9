package manifest

import (
	"fmt"
	"strconv"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// serverStateDir is where the server keeps its materialized state.
const serverStateDir = "/state"

// serverEnv builds the server container environment. The replication
// scope, when present, contributes exactly one entry; every other
// variable is unaffected by it.
func (rc renderContext) serverEnv() *EnvSet {
	cfg := rc.cfg

	env := NewEnvSet()
	env.Set(EnvDeployment, cfg.Deployment.Name)
	env.Set(EnvDatabaseType, cfg.Server.DatabaseType)
	env.Set(EnvAuthorityAddress, rc.authorityAddress())
	env.Set(EnvListenAddress, fmt.Sprintf("0.0.0.0:%d", cfg.Server.Service.Port))
	env.SetVar(corev1.EnvVar{
		Name: EnvExternalAddress,
		ValueFrom: &corev1.EnvVarSource{
			FieldRef: &corev1.ObjectFieldSelector{FieldPath: "status.podIP"},
		},
	})
	env.Set(EnvDBDir, serverStateDir)
	env.Set(EnvQuorum, strconv.FormatInt(int64(cfg.Server.Replicas), 10))
	if limit, ok := memoryLimitBytes(cfg.Server.Resources); ok {
		env.Set(EnvMemoryLimit, strconv.FormatInt(limit, 10))
	}
	env.Set(EnvQueryLog, strconv.FormatBool(cfg.Server.QueryLog))
	env.Set(EnvStatementLogging, strconv.FormatBool(cfg.Server.StatementLogging))
	env.Set(EnvMetricsAddress, fmt.Sprintf("0.0.0.0:%d", cfg.Server.Service.MetricsPort))
	env.SetVar(upstreamURLVar())

	if len(cfg.Server.ReplicationTables) > 0 {
		env.Set(EnvReplicationTables, strings.Join(cfg.Server.ReplicationTables, ","))
	}

	return env
}

// serverStatefulSet renders the caching server tier.
func (rc renderContext) serverStatefulSet() (*appsv1.StatefulSet, error) {
	cfg := rc.cfg

	resources, err := requirements("server.resources", cfg.Server.Resources)
	if err != nil {
		return nil, err
	}
	storage, err := storageRequest("server.resources", cfg.Server.Resources)
	if err != nil {
		return nil, err
	}

	server := corev1.Container{
		Name:  ServerName,
		Image: imageRef(cfg.Server.Image, AppVersion),
		Env:   rc.serverEnv().List(),
		Ports: []corev1.ContainerPort{
			{Name: "server", ContainerPort: cfg.Server.Service.Port, Protocol: corev1.ProtocolTCP},
			{Name: "metrics", ContainerPort: cfg.Server.Service.MetricsPort, Protocol: corev1.ProtocolTCP},
		},
		ReadinessProbe: tcpProbe("server", 10, 10),
		Resources:      resources,
	}

	var claims []corev1.PersistentVolumeClaim
	if storage != nil {
		server.VolumeMounts = []corev1.VolumeMount{{Name: "state", MountPath: serverStateDir}}
		claims = []corev1.PersistentVolumeClaim{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "state"},
				Spec: corev1.PersistentVolumeClaimSpec{
					AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
					Resources: corev1.VolumeResourceRequirements{
						Requests: corev1.ResourceList{corev1.ResourceStorage: *storage},
					},
				},
			},
		}
	}

	var containers []corev1.Container
	if cfg.Consensus.Enabled {
		containers = append(containers, rc.consensusAgentContainer())
	}
	containers = append(containers, server)

	replicas := cfg.Server.Replicas
	return &appsv1.StatefulSet{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "StatefulSet"},
		ObjectMeta: rc.objectMeta(ServerName, "server"),
		Spec: appsv1.StatefulSetSpec{
			Replicas:    &replicas,
			ServiceName: ServerName,
			Selector:    &metav1.LabelSelector{MatchLabels: selectorLabels(cfg, "server")},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: Labels(cfg, "server")},
				Spec: corev1.PodSpec{
					Containers: containers,
				},
			},
			VolumeClaimTemplates: claims,
		},
	}, nil
}

// serverService is the headless service governing the stateful set.
func (rc renderContext) serverService() *corev1.Service {
	cfg := rc.cfg

	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: rc.objectMeta(ServerName, "server"),
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  selectorLabels(cfg, "server"),
			Ports: []corev1.ServicePort{
				{
					Name:       "server",
					Port:       cfg.Server.Service.Port,
					TargetPort: intstr.FromString("server"),
					Protocol:   corev1.ProtocolTCP,
				},
				{
					Name:       "metrics",
					Port:       cfg.Server.Service.MetricsPort,
					TargetPort: intstr.FromString("metrics"),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}
