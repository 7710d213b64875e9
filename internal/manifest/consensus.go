package manifest

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Consensus store ports: client HTTP API and gossip.
const (
	consensusClientPort = 8500
	consensusSerfPort   = 8301
)

// consensusDefaultTag is the fallback image tag; the values document ships
// a pinned tag, so this only applies when an override clears it.
const consensusDefaultTag = "latest"

// consensusAgentContainer is the sidecar that joins adapter and server
// pods to the bundled consensus store.
func (rc renderContext) consensusAgentContainer() corev1.Container {
	return corev1.Container{
		Name:  "consensus-agent",
		Image: imageRef(rc.cfg.Consensus.Image, consensusDefaultTag),
		Args: []string{
			"agent",
			fmt.Sprintf("-retry-join=%s.%s.svc.cluster.local", ConsensusName, rc.namespace),
		},
		Ports: []corev1.ContainerPort{
			{Name: "serf", ContainerPort: consensusSerfPort, Protocol: corev1.ProtocolTCP},
		},
	}
}

// consensusStatefulSet renders the bundled consensus store.
func (rc renderContext) consensusStatefulSet() (*appsv1.StatefulSet, error) {
	cfg := rc.cfg

	resources, err := requirements("consensus.resources", cfg.Consensus.Resources)
	if err != nil {
		return nil, err
	}
	storage, err := storageRequest("consensus.resources", cfg.Consensus.Resources)
	if err != nil {
		return nil, err
	}

	container := corev1.Container{
		Name:  ConsensusName,
		Image: imageRef(cfg.Consensus.Image, consensusDefaultTag),
		Args: []string{
			"agent",
			"-server",
			fmt.Sprintf("-bootstrap-expect=%d", cfg.Consensus.Quorum),
			fmt.Sprintf("-retry-join=%s-0.%s.%s.svc.cluster.local", ConsensusName, ConsensusName, rc.namespace),
		},
		Ports: []corev1.ContainerPort{
			{Name: "client", ContainerPort: consensusClientPort, Protocol: corev1.ProtocolTCP},
			{Name: "serf", ContainerPort: consensusSerfPort, Protocol: corev1.ProtocolTCP},
		},
		ReadinessProbe: tcpProbe("client", 5, 10),
		Resources:      resources,
	}

	var claims []corev1.PersistentVolumeClaim
	if storage != nil {
		container.VolumeMounts = []corev1.VolumeMount{{Name: "data", MountPath: "/consul/data"}}
		claims = []corev1.PersistentVolumeClaim{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "data"},
				Spec: corev1.PersistentVolumeClaimSpec{
					AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
					Resources: corev1.VolumeResourceRequirements{
						Requests: corev1.ResourceList{corev1.ResourceStorage: *storage},
					},
				},
			},
		}
	}

	replicas := cfg.Consensus.Replicas
	return &appsv1.StatefulSet{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "StatefulSet"},
		ObjectMeta: rc.objectMeta(ConsensusName, "consensus"),
		Spec: appsv1.StatefulSetSpec{
			Replicas:    &replicas,
			ServiceName: ConsensusName,
			Selector:    &metav1.LabelSelector{MatchLabels: selectorLabels(cfg, "consensus")},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: Labels(cfg, "consensus")},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
				},
			},
			VolumeClaimTemplates: claims,
		},
	}, nil
}

// consensusService is the headless service the agents and servers join
// through.
func (rc renderContext) consensusService() *corev1.Service {
	cfg := rc.cfg

	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: rc.objectMeta(ConsensusName, "consensus"),
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  selectorLabels(cfg, "consensus"),
			Ports: []corev1.ServicePort{
				{
					Name:       "client",
					Port:       consensusClientPort,
					TargetPort: intstr.FromString("client"),
					Protocol:   corev1.ProtocolTCP,
				},
				{
					Name:       "serf",
					Port:       consensusSerfPort,
					TargetPort: intstr.FromString("serf"),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}
