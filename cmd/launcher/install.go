package main

import (
	"context"
	"fmt"

	"github.com/vocapepper/launcher/internal/engine"
)

// runInstall handles the `launcher install` subcommand
func runInstall(args []string) error {
	flags, rest, err := parseCommonFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printInstallHelp()
		return nil
	}
	if len(rest) > 0 {
		return fmt.Errorf("unknown argument: %s", rest[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	e, err := newEngine(ctx, flags)
	if err != nil {
		return err
	}
	wait := streamEvents(e)
	defer wait()
	defer e.Close()

	if err := e.CheckForUpdates(ctx); err != nil {
		return err
	}
	switch e.Decision() {
	case engine.UpToDate:
		// Pinned versions reinstall on request; latest is already there.
		if flags.pin == "" {
			return nil
		}
	case engine.NoBuildsForSelection:
		return fmt.Errorf("no builds published for brand %q", e.Brand())
	}
	return e.DownloadAndInstall(ctx)
}

func printInstallHelp() {
	fmt.Println("Usage: launcher install [options]")
	fmt.Println()
	fmt.Println("Downloads, verifies, and installs the selected release. With --pin the")
	fmt.Println("exact version is installed even when it is not the newest.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --yes, -y           Skip the confirmation prompt")
	fmt.Println("  --config <path>     Config file to load")
	fmt.Println("  --brand <name>      Select a brand")
	fmt.Println("  --pin <version>     Pin an exact version instead of latest")
	fmt.Println("  --install-dir <dir> Override the install directory")
	fmt.Println("  --help, -h          Show this help")
}
