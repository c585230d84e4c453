// create-user provisions an API account that can authenticate against
// POST /users/login. The password is bcrypt-hashed before it is stored.
//
// Usage: go run ./scripts/create-user -name "API User" -email api@example.com -password secret
//
// Database connection: uses config.yaml with standard PG* environment
// variable overrides.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/zipatlas/zipatlas-api/pkg/config"
	"github.com/zipatlas/zipatlas-api/pkg/database"
	"github.com/zipatlas/zipatlas-api/pkg/repositories"
)

func main() {
	name := flag.String("name", "", "display name for the account")
	email := flag.String("email", "", "login email (unique)")
	password := flag.String("password", "", "login password (min 6 characters)")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -name <name> -email <email> -password <password>\n", os.Args[0])
		os.Exit(1)
	}
	if len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "Error: password must be at least 6 characters")
		os.Exit(1)
	}

	if err := run(*name, *email, *password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(name, email, password string) error {
	cfg, err := config.Load("dev")
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: 1,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := repositories.NewUserRepository(db).Create(ctx, name, email, string(hash))
	if err != nil {
		return err
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
	return nil
}
