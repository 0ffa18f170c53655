package main

import (
	"context"
	"fmt"
)

// runStatus handles the `launcher status` subcommand
func runStatus(args []string) error {
	flags, rest, err := parseCommonFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printStatusHelp()
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
	// A failed check still produces a useful local status.
	checkErr := e.CheckForUpdates(ctx)
	e.Close()
	wait()

	fmt.Println()
	fmt.Printf("Brand:       %s\n", e.Brand())
	if branding, ok := e.Branding(e.Brand()); ok && branding.Title != "" {
		fmt.Printf("Title:       %s\n", branding.Title)
	}
	fmt.Printf("Install dir: %s\n", e.InstallDir())
	local := e.LocalVersion()
	if local == "" {
		local = "(not installed)"
	}
	fmt.Printf("Installed:   %s\n", local)
	if rel := e.ActiveRelease(); rel != nil {
		fmt.Printf("Remote:      %s\n", rel.Version)
	}
	fmt.Printf("Status:      %s\n", e.Decision())
	if checkErr != nil {
		fmt.Printf("Last check:  failed (%v)\n", checkErr)
	}

	if infos := e.Versions(); len(infos) > 0 {
		fmt.Println()
		fmt.Println("Available versions:")
		for _, info := range infos {
			marker := " "
			if info.Installed {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, info.Version)
		}
	}
	return nil
}

func printStatusHelp() {
	fmt.Println("Usage: launcher status [options]")
	fmt.Println()
	fmt.Println("Shows the selected brand, the installed version, and what the release")
	fmt.Println("server offers. Installed versions are marked with *.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>     Config file to load")
	fmt.Println("  --brand <name>      Select a brand")
	fmt.Println("  --pin <version>     Pin an exact version instead of latest")
	fmt.Println("  --install-dir <dir> Override the install directory")
	fmt.Println("  --help, -h          Show this help")
}
