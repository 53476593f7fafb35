// Command migrate applies pending schema migrations, or with -status lists
// the applied ones. It takes the server's configuration flags and
// environment.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/kitchenkeeper/internal/flagx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/config"
)

func main() {
	args := os.Args[1:]

	var status bool
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&status, "status", false, "list applied migrations")
	if err := fs.Parse(flagx.Set{Bool: []string{"-status", "--status"}}.Filter(args)); err != nil {
		log.Fatalf("flags: %v", err)
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := server.Migrate(context.Background(), cfg, status, os.Stdout); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
