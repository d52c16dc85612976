// Package main is the entry point for the doxir CLI tool.
package main

import (
	"github.com/hargabyte/doxir/internal/cmd"
)

func main() {
	cmd.Execute()
}
