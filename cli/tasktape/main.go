package main

import (
	"os"

	tasktapecmder "github.com/papercomputeco/tasktape/cmd/tasktape"
)

func main() {
	cmd := tasktapecmder.NewTasktapeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
