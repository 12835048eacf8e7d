package main

import (
	"fmt"
	"os"

	"leadboard/cmd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "leadboard:", err)
		os.Exit(1)
	}
}
