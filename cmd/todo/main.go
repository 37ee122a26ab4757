package main

import (
	"os"

	"github.com/idilsaglam/todo/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
