package main

import (
	"os"

	"github.com/TwilightLilyy/umatrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
