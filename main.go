// Package main is the entry point of the qa4sm CLI.
package main

import (
	"github.com/qa4sm/qa4sm-reader/cmd"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Cannot stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error", err)
	}
}
