// Command useradd creates an account:
//
//	useradd -email cook@example.com -password secret -role kitchen_staff [-name "Sam"]
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
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
)

func main() {
	args := os.Args[1:]

	var in services.RegisterInput
	var role string

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&in.Email, "email", "", "login email")
	fs.StringVar(&in.Password, "password", "", "initial password")
	fs.StringVar(&role, "role", string(models.RoleKitchenStaff), "role")
	fs.StringVar(&in.Name, "name", "", "display name")
	own := flagx.FilterArgs(args, []string{
		"-email", "--email", "-password", "--password", "-role", "--role", "-name", "--name",
	})
	if err := fs.Parse(own); err != nil {
		log.Fatalf("flags: %v", err)
	}
	in.Role = models.Role(role)

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if _, err := server.AddUser(context.Background(), cfg, in, os.Stdout); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
