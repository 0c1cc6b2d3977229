package main

import (
	"os"

	"github.com/auditdesk/assistant-hub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
