package main

import (
	"os"

	"github.com/yahsan2/gh-issue-batch/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
