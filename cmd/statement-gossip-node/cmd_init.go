package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shurlinet/statement-gossip/internal/config"
	"github.com/shurlinet/statement-gossip/pkg/transport"
)

const starterConfigTemplate = `# statement-gossip-node configuration
identity:
  key_file: "identity.key"
network:
  listen_addresses:
    - "/ip4/0.0.0.0/tcp/30333"
  # peers:
  #   - "/ip4/203.0.113.10/tcp/30333/p2p/12D3KooW..."
chain:
  genesis_hash: "%s"
telemetry:
  metrics:
    enabled: true
    listen_address: "127.0.0.1:9091"
`

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	genesisFlag := fs.String("genesis-hash", "0000000000000000000000000000000000000000000000000000000000000000", "hex-encoded chain genesis hash")
	fs.Parse(args)

	dir, err := config.DefaultConfigDir()
	if err != nil {
		fatal("Cannot determine config directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		fatal("Cannot create config directory %s: %v", dir, err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fatal("Config already exists at %s", configPath)
	}

	content := fmt.Sprintf(starterConfigTemplate, *genesisFlag)
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		fatal("Failed to write config: %v", err)
	}

	keyPath := filepath.Join(dir, "identity.key")
	peerID, err := transport.PeerIDFromKeyFile(keyPath)
	if err != nil {
		fatal("Failed to generate identity: %v", err)
	}

	fmt.Printf("Wrote config to %s\n", configPath)
	fmt.Printf("Generated identity %s\n", peerID.String())
	fmt.Println("Edit chain.genesis_hash and network.peers, then run: statement-gossip-node run")
}
