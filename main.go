// main is the entry point for the teampulse CLI.
package main

import (
	"github.com/teampulse/teampulse/cmd"
	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/iocache"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
