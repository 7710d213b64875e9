package config

// Caching modes govern when query results are materialized versus computed
// on demand.
const (
	CachingExplicit      = "explicit"
	CachingAsync         = "async"
	CachingInRequestPath = "in-request-path"
)

// Supported upstream database protocols.
const (
	DatabasePostgreSQL = "postgresql"
	DatabaseMySQL      = "mysql"
)

// Config holds the complete values document for one RowCache deployment.
type Config struct {
	Deployment DeploymentConfig `mapstructure:"deployment" yaml:"deployment"`
	Adapter    AdapterConfig    `mapstructure:"adapter" yaml:"adapter"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Consensus  ConsensusConfig  `mapstructure:"consensus" yaml:"consensus"`
}

// DeploymentConfig identifies the deployment and sets cluster-wide behavior.
type DeploymentConfig struct {
	// Name is the unique identifier for this deployment. Required.
	Name string `mapstructure:"name" yaml:"name"`

	// AuthorityAddress points at an externally operated consensus store.
	// Empty means the bundled consensus store is used; exactly one of the
	// two must be configured.
	AuthorityAddress string `mapstructure:"authority_address" yaml:"authority_address"`

	// QueryCachingMode is one of explicit, async, in-request-path.
	QueryCachingMode string `mapstructure:"query_caching_mode" yaml:"query_caching_mode"`
}

// ImageConfig overrides the container image for a component.
type ImageConfig struct {
	Repository string `mapstructure:"repository" yaml:"repository"`
	Tag        string `mapstructure:"tag" yaml:"tag"`
}

// ServiceConfig describes how a component is exposed.
type ServiceConfig struct {
	Type        string            `mapstructure:"type" yaml:"type"`
	Port        int32             `mapstructure:"port" yaml:"port"`
	MetricsPort int32             `mapstructure:"metrics_port" yaml:"metrics_port"`
	Annotations map[string]string `mapstructure:"annotations" yaml:"annotations"`
}

// ResourceList holds resource quantities in Kubernetes quantity notation.
// Empty means "let the platform choose".
type ResourceList struct {
	CPU     string `mapstructure:"cpu" yaml:"cpu"`
	Memory  string `mapstructure:"memory" yaml:"memory"`
	Storage string `mapstructure:"storage" yaml:"storage"`
}

// ResourceConfig holds requests and limits for a component.
type ResourceConfig struct {
	Requests ResourceList `mapstructure:"requests" yaml:"requests"`
	Limits   ResourceList `mapstructure:"limits" yaml:"limits"`
}

// ComponentConfig is the shared shape of the adapter and server blocks.
type ComponentConfig struct {
	// DatabaseType selects the wire protocol: postgresql or mysql.
	DatabaseType string `mapstructure:"database_type" yaml:"database_type"`

	// QueryLog enables logging of proxied queries.
	QueryLog bool `mapstructure:"query_log" yaml:"query_log"`

	// StatementLogging enables verbose logging of individual statements.
	StatementLogging bool `mapstructure:"statement_logging" yaml:"statement_logging"`

	Image     ImageConfig    `mapstructure:"image" yaml:"image"`
	Service   ServiceConfig  `mapstructure:"service" yaml:"service"`
	Resources ResourceConfig `mapstructure:"resources" yaml:"resources"`
}

// AdapterConfig configures the wire-protocol adapter tier.
type AdapterConfig struct {
	ComponentConfig `mapstructure:",squash" yaml:",inline"`

	// Replicas is the adapter deployment replica count.
	Replicas int32 `mapstructure:"replicas" yaml:"replicas"`
}

// ServerConfig configures the caching server tier.
type ServerConfig struct {
	ComponentConfig `mapstructure:",squash" yaml:",inline"`

	// Replicas is the server stateful set replica count.
	Replicas int32 `mapstructure:"replicas" yaml:"replicas"`

	// ReplicationTables restricts replication to an ordered list of
	// schema-qualified tables. Empty means replicate everything.
	ReplicationTables []string `mapstructure:"replication_tables" yaml:"replication_tables"`
}

// ConsensusConfig configures the bundled consensus store.
type ConsensusConfig struct {
	// Enabled deploys the bundled consensus store. When false,
	// deployment.authority_address must point at an external one.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Replicas is the consensus store server count.
	Replicas int32 `mapstructure:"replicas" yaml:"replicas"`

	// Quorum is the number of servers that must agree before the store
	// considers itself bootstrapped. Must not exceed Replicas.
	Quorum int32 `mapstructure:"quorum" yaml:"quorum"`

	Image     ImageConfig    `mapstructure:"image" yaml:"image"`
	Resources ResourceConfig `mapstructure:"resources" yaml:"resources"`
}
