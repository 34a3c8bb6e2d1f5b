package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// checkConfigFilePermissions returns an error if a config file has overly
// permissive permissions (group/world readable), so loading it fails. A statement-gossip config embeds the
// path to the node's private key file, so a world-readable config makes it
// trivial to locate.
func checkConfigFilePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil // file access errors are handled by the caller
	}
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return fmt.Errorf("config file %s has overly permissive mode %04o; expected 0600 — fix with: chmod 600 %s", path, mode, path)
	}
	return nil
}

// LoadNodeConfig loads node configuration from a YAML file.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	if err := checkConfigFilePermissions(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// time.Duration doesn't unmarshal from a YAML duration string on its
	// own, so Gossip.PropagateTimeout is parsed through a raw string field
	// and converted below.
	var rawConfig struct {
		Version  int            `yaml:"version,omitempty"`
		Identity IdentityConfig `yaml:"identity"`
		Network  NetworkConfig  `yaml:"network"`
		Chain    ChainConfig    `yaml:"chain"`
		Gossip   struct {
			MaxStatementSize        int    `yaml:"max_statement_size,omitempty"`
			MaxKnownStatements      int    `yaml:"max_known_statements,omitempty"`
			MaxPendingStatements    int    `yaml:"max_pending_statements,omitempty"`
			ValidationQueueCapacity int    `yaml:"validation_queue_capacity,omitempty"`
			PropagateTimeout        string `yaml:"propagate_timeout,omitempty"`
		} `yaml:"gossip,omitempty"`
		Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
	}

	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Default version to 1 for configs written before versioning was added.
	version := rawConfig.Version
	if version == 0 {
		version = 1
	}
	if version > CurrentConfigVersion {
		return nil, fmt.Errorf("%w: version %d is newer than supported version %d; please upgrade statement-gossip-node", ErrConfigVersionTooNew, version, CurrentConfigVersion)
	}

	var propagateTimeout time.Duration
	if rawConfig.Gossip.PropagateTimeout != "" {
		propagateTimeout, err = time.ParseDuration(rawConfig.Gossip.PropagateTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid gossip.propagate_timeout: %w", err)
		}
	}

	if rawConfig.Chain.GenesisHash != "" {
		if _, err := hex.DecodeString(strings.TrimPrefix(rawConfig.Chain.GenesisHash, "0x")); err != nil {
			return nil, fmt.Errorf("invalid chain.genesis_hash: %w", err)
		}
	}

	cfg := &NodeConfig{
		Version:  version,
		Identity: rawConfig.Identity,
		Network:  rawConfig.Network,
		Chain:    rawConfig.Chain,
		Gossip: GossipConfig{
			MaxStatementSize:        rawConfig.Gossip.MaxStatementSize,
			MaxKnownStatements:      rawConfig.Gossip.MaxKnownStatements,
			MaxPendingStatements:    rawConfig.Gossip.MaxPendingStatements,
			ValidationQueueCapacity: rawConfig.Gossip.ValidationQueueCapacity,
			PropagateTimeout:        propagateTimeout,
		},
		Telemetry: rawConfig.Telemetry,
	}

	return cfg, nil
}

// ValidateNodeConfig validates node configuration.
func ValidateNodeConfig(cfg *NodeConfig) error {
	if cfg.Identity.KeyFile == "" {
		return fmt.Errorf("identity.key_file is required")
	}
	if len(cfg.Network.ListenAddresses) == 0 {
		return fmt.Errorf("network.listen_addresses must contain at least one address")
	}
	if cfg.Chain.GenesisHash == "" {
		return fmt.Errorf("chain.genesis_hash is required")
	}
	if _, err := hex.DecodeString(strings.TrimPrefix(cfg.Chain.GenesisHash, "0x")); err != nil {
		return fmt.Errorf("chain.genesis_hash: %w", err)
	}
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress == "" {
		return fmt.Errorf("telemetry.metrics.listen_address is required when metrics are enabled")
	}
	return nil
}

// FindConfigFile searches for a statement-gossip-node config file in
// standard locations. Search order: explicitPath (if given),
// ./statement-gossip-node.yaml, ~/.config/statement-gossip-node/config.yaml,
// /etc/statement-gossip-node/config.yaml.
func FindConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicitPath)
		}
		return explicitPath, nil
	}

	searchPaths := []string{
		"statement-gossip-node.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "statement-gossip-node", "config.yaml"))
	}

	searchPaths = append(searchPaths, filepath.Join("/etc", "statement-gossip-node", "config.yaml"))

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w; searched:\n  %s\n\nRun 'statement-gossip-node init' to create one, or use --config <path>", ErrConfigNotFound, strings.Join(searchPaths, "\n  "))
}

// ResolveConfigPaths resolves relative file paths in the config to be
// relative to the config file's directory. This allows configs in
// ~/.config/statement-gossip-node/ to reference key files using relative
// paths.
func ResolveConfigPaths(cfg *NodeConfig, configDir string) {
	if cfg.Identity.KeyFile != "" && !filepath.IsAbs(cfg.Identity.KeyFile) {
		cfg.Identity.KeyFile = filepath.Join(configDir, cfg.Identity.KeyFile)
	}
}

// DefaultConfigDir returns the default statement-gossip-node config
// directory (~/.config/statement-gossip-node).
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "statement-gossip-node"), nil
}
