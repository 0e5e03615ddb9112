package main

import (
	"os"

	"github.com/perch-tools/perch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
