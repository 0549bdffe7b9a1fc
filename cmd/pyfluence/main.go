package main

import (
	"os"

	"github.com/kshehadeh/pyfluence/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
