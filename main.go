// Package main is the entry point of kolekk.
package main

import (
	"github.com/samber/lo"
	"github.com/thrombe/kolekk/cmd"
	"github.com/thrombe/kolekk/config"
	"github.com/thrombe/kolekk/internal/cache"
	"github.com/thrombe/kolekk/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
