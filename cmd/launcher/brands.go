package main

import (
	"context"
	"fmt"
)

// runBrands handles the `launcher brands` subcommand
func runBrands(args []string) error {
	flags, rest, err := parseCommonFlags(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printBrandsHelp()
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

	brands := e.Brands()
	if len(brands) == 0 {
		fmt.Println("No brands published.")
		return nil
	}
	fmt.Println()
	for _, name := range brands {
		line := name
		if branding, ok := e.Branding(name); ok && branding.Title != "" {
			line = fmt.Sprintf("%s  (%s)", name, branding.Title)
		}
		if name == e.Brand() {
			line += "  [selected]"
		}
		fmt.Println(line)
	}
	return nil
}

func printBrandsHelp() {
	fmt.Println("Usage: launcher brands [options]")
	fmt.Println()
	fmt.Println("Lists the brands published on the release server, with display titles")
	fmt.Println("from the config where defined.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>     Config file to load")
	fmt.Println("  --help, -h          Show this help")
}
