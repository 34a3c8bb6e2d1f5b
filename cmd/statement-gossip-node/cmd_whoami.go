package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/shurlinet/statement-gossip/internal/config"
	"github.com/shurlinet/statement-gossip/pkg/transport"
)

func runWhoami(args []string) {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	configFlag := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfgFile, err := config.FindConfigFile(*configFlag)
	if err != nil {
		fatal("Config error: %v", err)
	}
	cfg, err := config.LoadNodeConfig(cfgFile)
	if err != nil {
		fatal("Config error: %v", err)
	}
	config.ResolveConfigPaths(cfg, filepath.Dir(cfgFile))

	peerID, err := transport.PeerIDFromKeyFile(cfg.Identity.KeyFile)
	if err != nil {
		fatal("Failed to load identity: %v", err)
	}

	fmt.Println(peerID.String())
}
