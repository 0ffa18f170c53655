package config

import (
	"fmt"
	"os"
	"regexp"

	lua "github.com/yuin/gopher-lua"

	"github.com/vocapepper/launcher/internal/platform"
)

// ParseError is a config evaluation failure with a user-facing message.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// Load reads and evaluates the config file. A missing file yields defaults;
// a file that fails to parse is an error the caller surfaces, since silently
// ignoring a broken config would be worse than failing.
func Load(path string, info *platform.Info) (*Config, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseString(string(code), info)
}

// ParseString evaluates config code against a platform. Exposed for tests
// and in-memory configs.
func ParseString(code string, info *platform.Info) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if info != nil {
		platform.InjectPlatformTable(L, info)
	}

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}
	return extractConfig(L)
}

// extractConfig pulls the global `launcher` table out of the VM.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	value := L.GetGlobal("launcher")
	if value.Type() == lua.LTNil {
		// A config file that sets nothing is legal.
		return cfg, nil
	}
	if value.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "invalid 'launcher' table",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}
	table := value.(*lua.LTable)

	if s := stringField(table, "manifest_base"); s != "" {
		cfg.ManifestBase = s
	}
	cfg.ManifestURL = stringField(table, "manifest_url")
	cfg.SingleRelease = boolField(table, "single_release")
	if s := stringField(table, "default_brand"); s != "" {
		cfg.DefaultBrand = s
	}
	cfg.InstallDir = stringField(table, "install_dir")

	if s := stringField(table, "binary_pattern"); s != "" {
		pattern, err := regexp.Compile(s)
		if err != nil {
			return nil, &ParseError{Message: "invalid binary_pattern", Detail: err.Error()}
		}
		if pattern.NumSubexp() < 1 {
			return nil, &ParseError{
				Message: "invalid binary_pattern",
				Detail:  "pattern needs a capture group for the version",
			}
		}
		cfg.BinaryPattern = pattern
	}

	if brandsVal := table.RawGetString("brands"); brandsVal.Type() == lua.LTTable {
		brandsVal.(*lua.LTable).ForEach(func(key, entry lua.LValue) {
			entryTable, ok := entry.(*lua.LTable)
			if !ok {
				return
			}
			cfg.Brands[key.String()] = Branding{
				Title:    stringField(entryTable, "title"),
				Subtitle: stringField(entryTable, "subtitle"),
			}
		})
	}

	return cfg, nil
}

func stringField(table *lua.LTable, name string) string {
	value := table.RawGetString(name)
	if value.Type() != lua.LTString {
		return ""
	}
	return value.String()
}

func boolField(table *lua.LTable, name string) bool {
	value := table.RawGetString(name)
	return value == lua.LTrue
}
