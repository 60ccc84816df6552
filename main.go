package main

import (
	"fmt"
	"os"

	"github.com/wifibear/keybear/cmd"
)

// version is stamped by the release build with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "keybear: %v\n", err)
		os.Exit(1)
	}
}
