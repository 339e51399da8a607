// mmt - MMT installation paths and Java launcher
//
// mmt resolves the directories of an MMT installation (engines, runtime,
// lib, opt, build) from its install root and runs MMT main classes with the
// mmt jar on the classpath:
//
//	mmt paths
//	mmt run eu.modernmt.cli.Main start -e default
//
// A .env file in the working directory is loaded before the command runs,
// so MMT_HOME and MMT_CONFIG can be set per project.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/modernmt/mmt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
