package main

import (
	"os"

	"github.com/adityasawant2/idcarddetection/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
