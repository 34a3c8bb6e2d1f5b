package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"

	"github.com/shurlinet/statement-gossip/internal/config"
	"github.com/shurlinet/statement-gossip/internal/reputation"
	"github.com/shurlinet/statement-gossip/pkg/gossip"
	"github.com/shurlinet/statement-gossip/pkg/statement/memstore"
	"github.com/shurlinet/statement-gossip/pkg/transport"
)

func runNode(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configFlag := fs.String("config", "", "path to config file")
	fs.Parse(args)

	fmt.Printf("statement-gossip-node %s (%s)\n", version, commit)

	cfgFile, err := config.FindConfigFile(*configFlag)
	if err != nil {
		fatal("Config error: %v", err)
	}
	cfg, err := config.LoadNodeConfig(cfgFile)
	if err != nil {
		fatal("Config error: %v", err)
	}
	config.ResolveConfigPaths(cfg, filepath.Dir(cfgFile))
	if err := config.ValidateNodeConfig(cfg); err != nil {
		fatal("Invalid config: %v", err)
	}

	genesis, err := hex.DecodeString(strings.TrimPrefix(cfg.Chain.GenesisHash, "0x"))
	if err != nil {
		fatal("Invalid chain.genesis_hash: %v", err)
	}
	bootstrap := gossip.NewBootstrap(genesis, cfg.Chain.ForkID)

	transportMetrics := transport.NewMetrics(version, runtime.Version())
	gossipMetrics := gossip.NewMetrics()

	net, err := transport.New(&transport.Config{
		KeyFile:         cfg.Identity.KeyFile,
		ListenAddresses: cfg.Network.ListenAddresses,
		Protocol:        bootstrap.Protocol,
		Roles:           handshakeRoleResolver{},
		Handshake:       []byte{byte(gossip.RoleFull)},
		Metrics:         transportMetrics,
	})
	if err != nil {
		fatal("Failed to start transport: %v", err)
	}
	defer net.Close()

	slog.Info("node started", "peer_id", net.PeerID().String(), "protocol", bootstrap.Protocol)

	reservedPeers, err := resolveConfiguredPeers(net, cfg.Network.Peers)
	if err != nil {
		fatal("Invalid network.peers entry: %v", err)
	}

	ledgerPath := filepath.Join(filepath.Dir(cfgFile), "reputation.json")
	ledger := reputation.NewLedger(ledgerPath, int64(gossip.RepBadStatement), nil)

	gossipCfg := resolveGossipConfig(cfg.Gossip)
	engine := gossip.NewEngine(gossipCfg, gossip.Deps{
		Store:      memstore.New(nil),
		Notifier:   net,
		Sync:       newStaticSyncOracle(reservedPeers),
		Reserved:   net,
		Roles:      handshakeRoleResolver{},
		Reputation: ledger,
		Metrics:    gossipMetrics,
		Log:        slog.Default(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Metrics.Enabled {
		go serveMetrics(cfg.Telemetry.Metrics.ListenAddress, transportMetrics, gossipMetrics)
	}

	if err := engine.Run(ctx); err != nil {
		slog.Error("engine stopped", "error", err)
	}
	if err := ledger.Save(); err != nil {
		slog.Warn("failed to persist reputation ledger", "error", err)
	}
}

// resolveConfiguredPeers parses each configured multiaddr (which must carry
// a /p2p/<id> suffix), registers its address in the host's peerstore so a
// later dial can find it, and returns the bare peer IDs for the sync
// oracle's initial-peers announcement.
func resolveConfiguredPeers(net *transport.Network, addrs []string) ([]peer.ID, error) {
	ids := make([]peer.ID, 0, len(addrs))
	for _, raw := range addrs {
		maddr, err := multiaddr.NewMultiaddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", raw, err)
		}
		info, err := peer.AddrInfoFromP2pAddr(maddr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", raw, err)
		}
		net.Host().Peerstore().AddAddrs(info.ID, info.Addrs, time.Hour*24)
		ids = append(ids, info.ID)
	}
	return ids, nil
}

// resolveGossipConfig layers non-zero fields from the config file's Gossip
// section over gossip.DefaultConfig.
func resolveGossipConfig(g config.GossipConfig) gossip.Config {
	cfg := gossip.DefaultConfig()
	if g.MaxStatementSize != 0 {
		cfg.MaxStatementSize = g.MaxStatementSize
	}
	if g.MaxKnownStatements != 0 {
		cfg.MaxKnownStatements = g.MaxKnownStatements
	}
	if g.MaxPendingStatements != 0 {
		cfg.MaxPendingStatements = g.MaxPendingStatements
	}
	if g.ValidationQueueCapacity != 0 {
		cfg.ValidationQueueCapacity = g.ValidationQueueCapacity
	}
	if g.PropagateTimeout != 0 {
		cfg.PropagateTimeout = g.PropagateTimeout
	}
	return cfg
}

func serveMetrics(addr string, transportMetrics *transport.Metrics, gossipMetrics *gossip.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", gossipMetrics.Handler())
	mux.Handle("/metrics/transport", transportMetrics.Handler())
	slog.Info("serving metrics", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}
