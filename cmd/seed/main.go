// Command seed creates the first admin account and workspace directly in the
// database, for self-hosted installs where no mail delivery is configured.
// The account is created already verified, so the admin can log in right away.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/tensillabs/teamspace/internal/logging"
	"github.com/tensillabs/teamspace/internal/server/config"
	"github.com/tensillabs/teamspace/internal/server/identity"
	"github.com/tensillabs/teamspace/internal/server/repositories/repomanager"
	"github.com/tensillabs/teamspace/internal/server/tokens"
)

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	sl := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	email, err := prompt(reader, "Admin email")
	if err != nil {
		return err
	}
	firstName, err := prompt(reader, "First name")
	if err != nil {
		return err
	}
	lastName, err := prompt(reader, "Last name")
	if err != nil {
		return err
	}
	workspaceName, err := prompt(reader, "Workspace name")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	issuer := tokens.NewIssuer([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	svc := identity.NewService(db, rm, issuer, identity.NewLogNotifier(logger), logger, cfg)

	user, workspace, err := svc.Register(ctx, identity.RegisterParams{
		Email:         email,
		Password:      password,
		FirstName:     firstName,
		LastName:      lastName,
		WorkspaceName: workspaceName,
	})
	if err != nil {
		return err
	}

	// Skip the OTP round trip; the operator owns the database anyway.
	if err := rm.Users(db).SetEmailVerified(ctx, user.ID, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Created admin %s with workspace %q (%s)\n", user.Email, workspace.Name, workspace.Slug)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
