package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vocapepper/launcher/internal/config"
	"github.com/vocapepper/launcher/internal/engine"
	"github.com/vocapepper/launcher/internal/platform"
)

// commonFlags are the options every subcommand accepts.
type commonFlags struct {
	configPath string
	brand      string
	pin        string
	installDir string
	yes        bool
	showHelp   bool
}

// parseCommonFlags consumes the shared flags and returns any leftover args.
func parseCommonFlags(args []string) (commonFlags, []string, error) {
	var flags commonFlags
	var rest []string
	i := 0
	next := func(name string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		i++
		return args[i], nil
	}
	for ; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--help", "-h":
			flags.showHelp = true
		case "--yes", "-y":
			flags.yes = true
		case "--config":
			flags.configPath, err = next("--config")
		case "--brand":
			flags.brand, err = next("--brand")
		case "--pin":
			flags.pin, err = next("--pin")
		case "--install-dir":
			flags.installDir, err = next("--install-dir")
		default:
			rest = append(rest, args[i])
		}
		if err != nil {
			return flags, nil, err
		}
	}
	return flags, rest, nil
}

// launcherDir is where the config and state files live.
func launcherDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "Launcher")
}

// newEngine builds an engine from the config file, detected platform, and
// persisted state, then applies command-line overrides.
func newEngine(ctx context.Context, flags commonFlags) (*engine.Engine, error) {
	detector := platform.NewDetector()
	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = filepath.Join(launcherDir(), "launcher.lua")
	}
	cfg, err := config.Load(configPath, info)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var confirmer engine.Confirmer
	if !flags.yes {
		confirmer = engine.ConfirmerFunc(promptYesNo)
	}

	e := engine.New(engine.Options{
		Config:    cfg,
		Platform:  info,
		StatePath: filepath.Join(launcherDir(), "state.json"),
		Confirmer: confirmer,
	})
	if flags.installDir != "" {
		e.SetInstallDir(flags.installDir)
	}
	if flags.brand != "" {
		e.SelectBrand(flags.brand)
	}
	if flags.pin != "" {
		e.SelectVersion(flags.pin)
	}
	return e, nil
}

// streamEvents copies engine log lines to stdout until the stream closes.
// The returned wait function blocks until the last line was printed.
func streamEvents(e *engine.Engine) (wait func()) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for line := range e.Events() {
			fmt.Println(line)
		}
	}()
	return wg.Wait
}

// promptYesNo asks on stdin. Anything but y/yes declines.
func promptYesNo(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// opTimeout bounds network-bound subcommands.
const opTimeout = 10 * time.Minute
