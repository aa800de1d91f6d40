package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cmlabs-hris/hris-attendance/internal/cli"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// JWT_SECRET_KEY may live in the API's .env
	_ = godotenv.Load()

	var root cli.CLI
	ctx := kong.Parse(&root,
		kong.Name("attendancectl"),
		kong.Description("Offline tooling for the attendance registration service"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&cli.Context{Out: os.Stdout}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
