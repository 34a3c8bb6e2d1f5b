package config

import "time"

// CurrentConfigVersion is the latest configuration schema version.
// Bump this when adding fields that require migration.
const CurrentConfigVersion = 1

// NodeConfig is the unified configuration for a statement-gossip node.
type NodeConfig struct {
	Version   int             `yaml:"version,omitempty"`
	Identity  IdentityConfig  `yaml:"identity"`
	Network   NetworkConfig   `yaml:"network"`
	Chain     ChainConfig     `yaml:"chain"`
	Gossip    GossipConfig    `yaml:"gossip,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// IdentityConfig holds identity-related configuration.
type IdentityConfig struct {
	KeyFile string `yaml:"key_file"`
}

// NetworkConfig holds libp2p transport configuration.
type NetworkConfig struct {
	ListenAddresses       []string `yaml:"listen_addresses"`
	ResourceLimitsEnabled bool     `yaml:"resource_limits_enabled"`

	// Peers lists the statement-gossip multiaddrs (including a /p2p/<id>
	// suffix) this node reserves a substream with at startup. There is no
	// discovery layer in scope for this protocol — see gossip.SyncOracle —
	// so this is the only way a node learns who to gossip with.
	Peers []string `yaml:"peers,omitempty"`
}

// ChainConfig identifies which chain's statement-gossip network this node
// joins. Two nodes only negotiate the same substream, and so only ever
// gossip with each other, when GenesisHash and ForkID match exactly (see
// gossip.ProtocolName).
type ChainConfig struct {
	GenesisHash string `yaml:"genesis_hash"` // hex-encoded
	ForkID      string `yaml:"fork_id,omitempty"`
}

// GossipConfig overrides the gossip engine's tunable constants. A zero
// value for any field falls back to the package default (see
// gossip.DefaultConfig); see resolveGossipConfig in
// cmd/statement-gossip-node.
type GossipConfig struct {
	MaxStatementSize        int           `yaml:"max_statement_size,omitempty"`
	MaxKnownStatements      int           `yaml:"max_known_statements,omitempty"`
	MaxPendingStatements    int           `yaml:"max_pending_statements,omitempty"`
	ValidationQueueCapacity int           `yaml:"validation_queue_capacity,omitempty"`
	PropagateTimeout        time.Duration `yaml:"propagate_timeout,omitempty"`
}

// TelemetryConfig holds observability settings. Disabled by default.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// MetricsConfig controls Prometheus metrics exposure.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"` // no default; required when Enabled (init writes "127.0.0.1:9091")
}
