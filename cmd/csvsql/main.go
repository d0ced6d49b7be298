// Package main provides the csvsql command.
package main

import (
	"os"

	"github.com/nao1215/csvsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
