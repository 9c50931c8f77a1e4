package main

import (
	"fmt"
	"os"

	"github.com/shashiranjanraj/lastbite/internal/server"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/lastbite/database/migrations"
)

func main() {
	if err := server.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
