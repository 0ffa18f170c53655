package main

import (
	"context"
	"fmt"

	"github.com/vocapepper/launcher/internal/engine"
)

// runCheck handles the `launcher check` subcommand
func runCheck(args []string) error {
	flags, rest, err := parseCommonFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printCheckHelp()
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
	checkErr := e.CheckForUpdates(ctx)
	e.Close()
	wait()
	if checkErr != nil {
		return checkErr
	}

	if e.Decision() == engine.UpdateAvailable {
		if notes := e.ReleaseNotes(); notes != "" {
			fmt.Println()
			fmt.Println("Release notes:")
			fmt.Println(notes)
		}
	}
	return nil
}

func printCheckHelp() {
	fmt.Println("Usage: launcher check [options]")
	fmt.Println()
	fmt.Println("Fetches the release manifest and reports whether an update is available")
	fmt.Println("for the selected brand and version.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>     Config file to load")
	fmt.Println("  --brand <name>      Select a brand")
	fmt.Println("  --pin <version>     Pin an exact version instead of latest")
	fmt.Println("  --install-dir <dir> Override the install directory")
	fmt.Println("  --help, -h          Show this help")
}
