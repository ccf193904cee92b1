// Package main is the entry point for the narxly CLI.
package main

import (
	"github.com/jasurbekn/narxly/cmd/narxly/cmd"
)

func main() {
	cmd.Execute()
}
