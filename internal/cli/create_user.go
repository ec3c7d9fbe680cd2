// Package cli implements the command-line subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/config"
	"github.com/phyn2-2/kikuyu-vocab/internal/database"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// CreateUserCommand creates a user account from the command line, used for
// bootstrapping the first administrator.
type CreateUserCommand struct {
	Username     string
	Email        string
	Password     string
	Role         string
	DatabasePath string
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (prompted if omitted)")
	fs.StringVar(&cmd.Role, "role", string(entities.RoleContributor), "Role: contributor, reviewer or admin")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username admin -email admin@example.com -role admin\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" {
		fs.Usage()
		return fmt.Errorf("username and email are required")
	}
	return nil
}

// Run executes the create-user command
func (cmd *CreateUserCommand) Run() error {
	password := cmd.Password
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser(cmd.Username, cmd.Email, password, entities.UserRole(cmd.Role))
	if err != nil {
		return err
	}

	fmt.Printf("Created user %q (%s) with role %s\n", user.Username, user.Email, user.Role)
	return nil
}
