// Package main is the entry point for the torii application.
package main

import (
	"github.com/samber/lo"

	"github.com/torii-cli/torii/cmd"
	"github.com/torii-cli/torii/config"
	"github.com/torii-cli/torii/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
