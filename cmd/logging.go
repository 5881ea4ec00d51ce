package cmd

import (
	"github.com/achilleasa/octrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("octrace")

func setupLogging(ctx *cli.Context) {
	verbosity := 0
	if ctx.GlobalBool("v") {
		verbosity = 1
	}
	if ctx.GlobalBool("vv") {
		verbosity = 2
	}
	log.SetLevel(log.LevelForVerbosity(verbosity))
}
