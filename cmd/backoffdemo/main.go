package main

import (
	"os"

	"github.com/hedisam/backoffactor/cmd/backoffdemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
