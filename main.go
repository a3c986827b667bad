// Package main is the entry point of mafilu.
package main

import (
	"github.com/mafilu-cli/mafilu/cmd"
	"github.com/mafilu-cli/mafilu/config"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
