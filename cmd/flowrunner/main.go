// Command flowrunner runs YAML browser-automation scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/kawanishi0117/flowrunner/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
