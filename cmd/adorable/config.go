package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/adorable"
)

const defaultConfigPath = ".adorable.yaml"

var k = koanf.New(".")

// flagKeys maps flag names to configuration keys where the two differ.
var flagKeys = map[string]string{
	"noReset": "no-reset",
	"ext":     "extensions",
	"remote":  "live.remote",
	"headful": "live.headful",
}

// commandFlagKeys holds per-command overrides of flagKeys.
var commandFlagKeys = map[string]map[string]string{
	"inject": {"out": "inject.out"},
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	k = koanf.New(".")

	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence). Unchanged flags only fill keys that
	// no other source set.
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKeyFunc(cmd.Name(), flags)), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// flagKeyFunc returns the posflag callback naming configuration keys for the
// flags of the named command.
func flagKeyFunc(command string, fs *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		key := f.Name
		if scoped, ok := commandFlagKeys[command][f.Name]; ok {
			key = scoped
		} else if mapped, ok := flagKeys[f.Name]; ok {
			key = mapped
		}
		return key, posflag.FlagVal(fs, f)
	}
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (ADORABLE_* prefix)
	if err := k.Load(env.Provider("ADORABLE_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps environment variable names to configuration keys:
//
//	ADORABLE_NO_RESET     -> no-reset
//	ADORABLE_LIVE__REMOTE -> live.remote
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "ADORABLE_"))
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ReplaceAll(s, "_", "-")
}

// buildConfig constructs the library's Config struct from koanf state.
// A positional root argument wins over the configured root.
func buildConfig(args []string) adorable.Config {
	config := adorable.Config{
		Root:      getStringWithFallback("root", adorable.DefaultRoot),
		Out:       getStringWithFallback("out", adorable.DefaultOut),
		Watch:     getBoolWithFallback("watch", false),
		Minify:    getBoolWithFallback("minify", false),
		Verbose:   getBoolWithFallback("verbose", false),
		NoReset:   getBoolWithFallback("no-reset", false),
		Gitignore: getBoolWithFallback("gitignore", false),
	}
	if len(args) > 0 && args[0] != "" {
		config.Root = args[0]
	}

	if exts := k.Strings("extensions"); len(exts) > 0 {
		config.Extensions = exts
	} else {
		config.Extensions = append([]string(nil), adorable.DefaultExtensions...)
	}
	if exclude := k.Strings("exclude"); len(exclude) > 0 {
		config.Exclude = exclude
	} else {
		config.Exclude = append([]string(nil), adorable.DefaultExclude...)
	}

	return config
}

// getStringWithFallback returns the value at key, or defaultVal when unset or empty.
func getStringWithFallback(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback returns the value at key, or defaultVal when unset.
func getBoolWithFallback(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}
