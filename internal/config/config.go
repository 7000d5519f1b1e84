// Package config loads the wasmcfg.toml file: logging verbosity, graph
// verification and the host modules programs may import from.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/stdlib"
	"github.com/indutny/wasm-cfg/internal/types"
)

// FileName is the config file looked up when no path is given
const FileName = "wasmcfg.toml"

// Config is the decoded config file
type Config struct {
	LogLevel string            `toml:"log-level" default:"warn"`
	Verify   bool              `toml:"verify" default:"true"`
	Modules  []*ModuleManifest `toml:"module"`
}

// ModuleManifest declares a host module
type ModuleManifest struct {
	Name      string              `toml:"name"`
	Functions []*FunctionManifest `toml:"function"`
}

// FunctionManifest declares one function of a host module. Types use
// their source spelling.
type FunctionManifest struct {
	Name   string   `toml:"name"`
	Params []string `toml:"params,omitempty"`
	Result string   `toml:"result"`
}

// verbosities maps log levels to commonlog verbosity values
var verbosities = map[string]int{
	"silent": -4,
	"error":  0,
	"warn":   1,
	"info":   3,
	"debug":  4,
}

// LogLevels lists the accepted log levels from quietest to loudest
func LogLevels() []string {
	return []string{"silent", "error", "warn", "info", "debug"}
}

// Default returns the configuration used without a config file
func Default() *Config {
	return &Config{LogLevel: "warn", Verify: true}
}

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(buff)
}

// Parse decodes and validates config file contents. Missing keys keep
// their defaults.
func Parse(buff []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(buff, cfg); err != nil {
		return nil, errors.InvalidManifest(err.Error())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, ok := verbosities[c.LogLevel]; !ok {
		return errors.InvalidManifest(fmt.Sprintf("unknown log level '%s'", c.LogLevel))
	}

	for i, mod := range c.Modules {
		if mod.Name == "" {
			return errors.InvalidManifest(fmt.Sprintf("module #%d has no name", i+1))
		}
		for _, fn := range mod.Functions {
			if _, err := fn.definition(mod.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FunctionManifest) definition(module string) (stdlib.FunctionDefinition, error) {
	if f.Name == "" {
		return stdlib.FunctionDefinition{}, errors.InvalidManifest(
			fmt.Sprintf("function without a name in module '%s'", module))
	}

	result := types.Void
	if f.Result != "" {
		t, ok := types.Parse(f.Result)
		if !ok {
			return stdlib.FunctionDefinition{}, errors.InvalidManifest(
				fmt.Sprintf("%s::%s: unknown result type '%s'", module, f.Name, f.Result))
		}
		result = t
	}

	params := make([]types.Type, len(f.Params))
	for i, name := range f.Params {
		t, ok := types.Parse(name)
		if !ok || !t.IsValue() {
			return stdlib.FunctionDefinition{}, errors.InvalidManifest(
				fmt.Sprintf("%s::%s: invalid parameter type '%s'", module, f.Name, name))
		}
		params[i] = t
	}
	return stdlib.NewFunction(f.Name, result, params...), nil
}

// Verbosity returns the commonlog verbosity of the configured log level
func (c *Config) Verbosity() int {
	return verbosities[c.LogLevel]
}

// ModuleDefinitions converts the declared modules for the resolver
func (c *Config) ModuleDefinitions() ([]*stdlib.ModuleDefinition, error) {
	out := make([]*stdlib.ModuleDefinition, 0, len(c.Modules))
	for _, mod := range c.Modules {
		def := &stdlib.ModuleDefinition{Name: mod.Name}
		for _, fn := range mod.Functions {
			d, err := fn.definition(mod.Name)
			if err != nil {
				return nil, err
			}
			def.Functions = append(def.Functions, d)
		}
		out = append(out, def)
	}
	return out, nil
}

// Resolver builds an import resolver over the standard and declared modules
func (c *Config) Resolver() (*stdlib.Resolver, error) {
	mods, err := c.ModuleDefinitions()
	if err != nil {
		return nil, err
	}
	return stdlib.NewResolver(mods...)
}
