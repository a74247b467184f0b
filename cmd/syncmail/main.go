package main

import (
	"os"

	"github.com/syncmail/syncmail/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
