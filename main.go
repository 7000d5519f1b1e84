// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/indutny/wasm-cfg/internal/cfg"
	"github.com/indutny/wasm-cfg/internal/config"
	"github.com/indutny/wasm-cfg/repl"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	resolver, err := config.Default().Resolver()
	if err != nil {
		fmt.Printf("Error loading modules: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Welcome to the wasmcfg REPL, %s!\n", currentUser.Username)
	opts := cfg.Options{Resolver: resolver, Verify: true}
	if len(os.Args) > 1 && os.Args[1] == "-" {
		repl.Start(os.Stdin, os.Stdout, opts)
		return
	}
	repl.StartInteractive(os.Stdout, opts)
}
