package main

import (
	"context"
	"fmt"
)

// runUninstall handles the `launcher uninstall` subcommand
func runUninstall(args []string) error {
	flags, rest, err := parseCommonFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printUninstallHelp()
		return nil
	}
	if len(rest) > 0 {
		return fmt.Errorf("unknown argument: %s", rest[0])
	}

	// Uninstall works entirely from the install tree; no manifest fetch,
	// so it keeps working when the release server is down.
	e, err := newEngine(context.Background(), flags)
	if err != nil {
		return err
	}
	wait := streamEvents(e)
	defer wait()
	defer e.Close()

	return e.UninstallSelected()
}

func printUninstallHelp() {
	fmt.Println("Usage: launcher uninstall [options]")
	fmt.Println()
	fmt.Println("Removes the installed build for the selected brand. With --pin the exact")
	fmt.Println("version is removed; otherwise the newest installed build is.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --yes, -y           Skip the confirmation prompt")
	fmt.Println("  --config <path>     Config file to load")
	fmt.Println("  --brand <name>      Select a brand")
	fmt.Println("  --pin <version>     Remove this exact version")
	fmt.Println("  --install-dir <dir> Override the install directory")
	fmt.Println("  --help, -h          Show this help")
}
