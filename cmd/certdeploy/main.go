package main

import (
	"github.com/ksyq12/certdeploy/internal/cli"
	_ "github.com/ksyq12/certdeploy/internal/target" // Register deploy targets
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
