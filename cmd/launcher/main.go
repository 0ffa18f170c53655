package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v1.0.0"

func main() {
	// Handle subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("Launcher %s\n", Version)
			return
		case "check":
			// Handle launcher check subcommand
			if err := runCheck(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "install":
			// Handle launcher install subcommand
			if err := runInstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "uninstall":
			// Handle launcher uninstall subcommand
			if err := runUninstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "launch":
			// Handle launcher launch subcommand
			if err := runLaunch(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "status":
			// Handle launcher status subcommand
			if err := runStatus(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "brands":
			// Handle launcher brands subcommand
			if err := runBrands(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Default: show help
	fmt.Println("Launcher - download, install, and run game releases")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  launcher --version                   Show version information")
	fmt.Println("  launcher check [options]             Check the release server for updates")
	fmt.Println("  launcher status [options]            Show the installed and remote versions")
	fmt.Println("  launcher brands [options]            List brands published on the release server")
	fmt.Println("  launcher install [options]           Download and install the selected release")
	fmt.Println("  launcher uninstall [options]         Remove the installed release")
	fmt.Println("  launcher launch [options]            Start the installed game")
	fmt.Println()
	fmt.Println("Common options:")
	fmt.Println("  --config <path>     Config file (default: <user config dir>/Launcher/launcher.lua)")
	fmt.Println("  --brand <name>      Select a brand")
	fmt.Println("  --pin <version>     Pin an exact version instead of latest")
	fmt.Println("  --install-dir <dir> Override the install directory")
}
