// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/config"
	"github.com/indutny/wasm-cfg/internal/lsp"
)

const lsName = "wasmcfg"

var log = commonlog.GetLogger("wasmcfg.server")

func main() {
	cli := olive.NewCLI("wasmcfg-lsp", "wasmcfg-lsp serves wasmcfg diagnostics over stdio", true)
	cli.AddStringArg("config", "c", "the path to the config file", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		commonlog.Configure(1, nil)
		log.Errorf("parsing arguments: %s", err)
		os.Exit(2)
	}

	conf := config.Default()
	if configPath, ok := result.Arguments["config"]; ok {
		loaded, err := config.Load(configPath.(string))
		if err != nil {
			commonlog.Configure(1, nil)
			log.Errorf("loading config: %s", err)
			os.Exit(1)
		}
		conf = loaded
	}
	commonlog.Configure(conf.Verbosity(), nil)

	resolver, err := conf.Resolver()
	if err != nil {
		log.Errorf("building resolver: %s", err)
		os.Exit(1)
	}

	h := lsp.NewHandler(cfg.Options{Resolver: resolver, Verify: conf.Verify})
	handler := protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentHover:              h.TextDocumentHover,
		TextDocumentCompletion:         h.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Info("starting wasmcfg language server")
	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		os.Exit(1)
	}
}
