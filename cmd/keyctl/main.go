package main

import (
	"fmt"
	"os"

	"github.com/dimitrije/apikey-dashboard/cmd/keyctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
