// SPDX-License-Identifier: Apache-2.0
package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/ComedicChimera/olive"
	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/config"
	"github.com/indutny/wasm-cfg/internal/display"
	"github.com/indutny/wasm-cfg/internal/errors"
	"github.com/indutny/wasm-cfg/internal/parser"
)

const version = "0.1.0"

func main() {
	cli := olive.NewCLI("wasmcfg", "wasmcfg translates typed functions into control-flow graphs", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, config.LogLevels())
	cli.AddStringArg("config", "c", "the path to the config file", false)

	buildCmd := cli.AddSubcommand("build", "translate a file and print its graphs", true)
	buildCmd.AddPrimaryArg("file", "the source file to translate", true)
	buildCmd.AddFlag("stats", "s", "print a table of per-function statistics")

	checkCmd := cli.AddSubcommand("check", "translate a file and report errors only", true)
	checkCmd.AddPrimaryArg("file", "the source file to check", true)

	cli.AddSubcommand("version", "print the wasmcfg version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		display.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(2)
	}

	subcmdName, subResult, _ := result.Subcommand()
	if subResult == nil {
		display.PrintWarningMessage("CLI Usage", "expected a subcommand: build, check or version")
		os.Exit(2)
	}
	if subcmdName == "version" {
		display.PrintInfoMessage("wasmcfg Version", version)
		return
	}

	conf, err := loadConfig(result)
	if err != nil {
		display.PrintErrorMessage("Config Error", err)
		os.Exit(1)
	}
	commonlog.Configure(conf.Verbosity(), nil)

	path, _ := subResult.PrimaryArg()
	switch subcmdName {
	case "build":
		os.Exit(execBuildCommand(conf, path, subResult.HasFlag("stats"), true))
	case "check":
		os.Exit(execBuildCommand(conf, path, false, false))
	}
}

// loadConfig reads the config named by --config, or wasmcfg.toml in the
// working directory when it exists. --loglevel overrides the file.
func loadConfig(result *olive.ArgParseResult) (*config.Config, error) {
	conf := config.Default()

	if path, ok := result.Arguments["config"]; ok {
		loaded, err := config.Load(path.(string))
		if err != nil {
			return nil, err
		}
		conf = loaded
	} else if _, err := os.Stat(config.FileName); err == nil {
		loaded, err := config.Load(config.FileName)
		if err != nil {
			return nil, err
		}
		conf = loaded
	}

	if level, ok := result.Arguments["loglevel"]; ok {
		conf.LogLevel = level.(string)
	}
	return conf, nil
}

// execBuildCommand translates path and returns the process exit code
func execBuildCommand(conf *config.Config, path string, stats, render bool) int {
	startTime := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		display.PrintErrorMessage("File Error", err)
		return 1
	}
	if render {
		display.PrintHeader(version, path)
	}

	reporter := errors.NewErrorReporter(path, string(source))

	program, parseErrors := parser.ParseSource(path, string(source))
	if len(parseErrors) > 0 {
		fmt.Print(reporter.FormatErrors(parseErrors))
		display.PrintFailure(fmt.Sprintf("%d error(s) in %s", len(parseErrors), path), time.Since(startTime))
		return 1
	}

	resolver, err := conf.Resolver()
	if err != nil {
		display.PrintErrorMessage("Config Error", err)
		return 1
	}

	fns, err := cfg.Build(program, cfg.Options{Resolver: resolver, Verify: conf.Verify})
	if err != nil {
		var ce errors.CompilerError
		if stderrors.As(err, &ce) {
			fmt.Print(reporter.FormatError(ce))
		} else {
			display.PrintErrorMessage("Graph Error", err)
		}
		display.PrintFailure("translation failed", time.Since(startTime))
		return 1
	}

	if render {
		fmt.Print(cfg.Render(fns))
	}
	if stats {
		if err := display.PrintStats(fns); err != nil {
			display.PrintErrorMessage("Display Error", err)
		}
	}

	msg := fmt.Sprintf("translated %d function(s) from %s", len(fns), path)
	if render {
		display.PrintSuccess(msg, time.Since(startTime))
	} else {
		color.Green("%s: ok, %d function(s)", path, len(fns))
	}
	return 0
}
