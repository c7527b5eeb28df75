package main

import (
	"os"

	"github.com/stigoleg/keepalive-motion/internal/cli"
)

// set via -ldflags "-X main.appVersion=..."
var appVersion = "2.0.0"

func main() {
	os.Exit(cli.Execute(appVersion))
}
