// main is the entry point for the bfskpi CLI.
package main

import (
	"github.com/huangsam/bfskpi/cmd"
	"github.com/huangsam/bfskpi/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
