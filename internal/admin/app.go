// Package admin implements cardctl, the operator CLI for migrations and
// account administration.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cardtrack/internal/logging"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/services"
)

// ErrUsage is returned for an unknown command or bad command flags.
var ErrUsage = errors.New("usage error")

const usage = `usage: cardctl [-c config.json] [-d dsn] <command> [flags]

commands:
  migrate                          apply database migrations
  create-admin -name N -email E    create an administrator (password is prompted)
  promote -email E [-revoke]       grant or revoke administrator rights
  delete-user -email E             delete a user with their cards and comments
`

type UserAdmin interface {
	CreateAdmin(ctx context.Context, in services.RegisterInput) (*models.User, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) (*models.User, error)
	DeleteUser(ctx context.Context, email string) (*models.User, error)
}

type App struct {
	users   UserAdmin
	migrate func(ctx context.Context) error
	logger  logging.Logger
	in      *bufio.Reader
	out     io.Writer
}

func NewApp(users UserAdmin, migrate func(ctx context.Context) error, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		users:   users,
		migrate: migrate,
		logger:  l.With("module", "cardctl"),
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Usage writes the command summary.
func (a *App) Usage() {
	fmt.Fprint(a.out, usage)
}

// Run executes one command with its own flags.
func (a *App) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "migrate":
		return a.runMigrate(ctx)
	case "create-admin":
		return a.createAdmin(ctx, args)
	case "promote":
		return a.promote(ctx, args)
	case "delete-user":
		return a.deleteUser(ctx, args)
	case "", "help":
		a.Usage()
		if command == "" {
			return ErrUsage
		}
		return nil
	}
	a.Usage()
	return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
}

func (a *App) runMigrate(ctx context.Context) error {
	if err := a.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.logger.Info(ctx, "migrations applied")
	fmt.Fprintln(a.out, "Migrations applied")
	return nil
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	fs := a.flagSet("create-admin")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "e-mail address")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var err error
	if *name == "" {
		if *name, err = GetSimpleText(a.in, "Name", a.out); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = GetSimpleText(a.in, "E-mail", a.out); err != nil {
			return err
		}
	}
	password, err := GetNewPassword(a.in, a.out)
	if err != nil {
		return err
	}

	u, err := a.users.CreateAdmin(ctx, services.RegisterInput{Name: *name, Email: *email, Password: password})
	if err != nil {
		return err
	}
	a.logger.Info(ctx, "admin created", "user_id", u.ID)
	fmt.Fprintf(a.out, "Created administrator %s <%s> (id %d)\n", u.Name, u.Email, u.ID)
	return nil
}

func (a *App) promote(ctx context.Context, args []string) error {
	fs := a.flagSet("promote")
	email := fs.String("email", "", "e-mail address")
	revoke := fs.Bool("revoke", false, "revoke administrator rights instead of granting them")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", ErrUsage)
	}

	u, err := a.users.SetAdmin(ctx, *email, !*revoke)
	if err != nil {
		return err
	}
	a.logger.Info(ctx, "admin flag changed", "user_id", u.ID, "is_admin", u.IsAdmin)
	if u.IsAdmin {
		fmt.Fprintf(a.out, "%s is now an administrator\n", u.Email)
	} else {
		fmt.Fprintf(a.out, "%s is no longer an administrator\n", u.Email)
	}
	return nil
}

func (a *App) deleteUser(ctx context.Context, args []string) error {
	fs := a.flagSet("delete-user")
	email := fs.String("email", "", "e-mail address")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", ErrUsage)
	}

	u, err := a.users.DeleteUser(ctx, *email)
	if err != nil {
		return err
	}
	a.logger.Info(ctx, "user deleted", "user_id", u.ID)
	fmt.Fprintf(a.out, "Deleted %s with all their cards and comments\n", u.Email)
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}
