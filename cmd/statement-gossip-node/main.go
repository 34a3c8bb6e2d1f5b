package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
)

// Set via -ldflags at build time:
//
//	go build -ldflags "-X main.version=0.1.0 -X main.commit=$(git rev-parse --short HEAD)" -o statement-gossip-node ./cmd/statement-gossip-node
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 2 {
		printUsage()
		osExit(1)
		return
	}

	switch os.Args[1] {
	case "run":
		runNode(os.Args[2:])
	case "init":
		runInit(os.Args[2:])
	case "whoami":
		runWhoami(os.Args[2:])
	case "version", "--version":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		osExit(1)
	}
}

func printVersion() {
	fmt.Printf("statement-gossip-node %s (%s)\n", version, commit)
	fmt.Printf("Go %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Println("Usage: statement-gossip-node <command> [options]")
	fmt.Println()
	fmt.Println("  run                      Start the gossip node (foreground)")
	fmt.Println("  init                     Write a starter config and generate an identity")
	fmt.Println("  whoami                   Show this node's peer ID")
	fmt.Println("  version                  Show version information")
	fmt.Println()
	fmt.Println("run and whoami support --config <path> to specify a config file.")
	fmt.Println("Without --config, statement-gossip-node searches: ./statement-gossip-node.yaml,")
	fmt.Println("~/.config/statement-gossip-node/config.yaml, /etc/statement-gossip-node/config.yaml")
}
