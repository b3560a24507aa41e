package main

import (
	"os"

	"github.com/adanyl0v/task-manager/internal/app"
)

func main() {
	err := app.NewRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}
