package main

import (
	"context"
	"fmt"
	"time"
)

// runLaunch handles the `launcher launch` subcommand
func runLaunch(args []string) error {
	flags, rest, err := parseCommonFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printLaunchHelp()
		return nil
	}
	wait := false
	for _, arg := range rest {
		switch arg {
		case "--wait", "-w":
			wait = true
		default:
			return fmt.Errorf("unknown argument: %s", arg)
		}
	}

	e, err := newEngine(context.Background(), flags)
	if err != nil {
		return err
	}
	waitEvents := streamEvents(e)
	defer waitEvents()
	defer e.Close()

	if err := e.LaunchSelected(); err != nil {
		return err
	}
	if wait {
		for e.IsRunning() {
			time.Sleep(time.Second)
		}
	}
	return nil
}

func printLaunchHelp() {
	fmt.Println("Usage: launcher launch [options]")
	fmt.Println()
	fmt.Println("Starts the installed game binary for the selected brand. With --pin the")
	fmt.Println("exact installed version is launched; otherwise the newest installed one.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --wait, -w          Block until the game exits")
	fmt.Println("  --config <path>     Config file to load")
	fmt.Println("  --brand <name>      Select a brand")
	fmt.Println("  --pin <version>     Launch this exact version")
	fmt.Println("  --install-dir <dir> Override the install directory")
	fmt.Println("  --help, -h          Show this help")
}
