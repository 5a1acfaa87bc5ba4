// Command manage runs maintenance tasks against the budgetron database.
package main

import (
	"bufio"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"budgetron/internal/config"
	"budgetron/internal/database"
	"budgetron/internal/logger"
	"budgetron/internal/models"
	"budgetron/internal/repositories"
	"budgetron/internal/services"
	"budgetron/internal/validation"

	"golang.org/x/term"
)

const usage = `Usage: manage <command> [flags]

Commands:
  seed            create the reference roles and default categories
  create-admin    create an admin account, or promote an existing one
  purge-tokens    delete expired refresh and blacklisted tokens
  demo-data       fill an account with generated transactions
`

const minPasswordLength = 8

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// seeding is explicit here
	cfg.Database.SeedOnStart = false
	log := logger.New(cfg)

	switch args[0] {
	case "seed":
		return seed(cfg, stdout)
	case "create-admin":
		return createAdmin(cfg, args[1:], stdin, stdout, stderr)
	case "purge-tokens":
		return purgeTokens(cfg, log, args[1:], stdout, stderr)
	case "demo-data":
		return demoData(cfg, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func seed(cfg *config.Config, stdout io.Writer) error {
	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Seed(db.DB); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Reference data is up to date")
	return nil
}

func createAdmin(cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: manage create-admin -username <name> -email <email> [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: username, email")
	}
	if err := validation.GetValidator().GetValidate().Var(*email, "email"); err != nil {
		return fmt.Errorf("invalid email %q", *email)
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := services.NewPasswordService(cfg.Security.BCryptCost).HashPassword(password)
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Seed(db.DB); err != nil {
		return err
	}

	user, created, err := database.CreateAdminUser(db.DB, *username, strings.ToLower(*email), hash)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(stdout, "Admin %s created with ID %s\n", user.Username, user.ID)
	} else {
		fmt.Fprintf(stdout, "Existing user %s promoted to admin\n", user.Username)
	}
	return nil
}

func purgeTokens(cfg *config.Config, log *slog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("purge-tokens", flag.ContinueOnError)
	fs.SetOutput(stderr)
	auditDays := fs.Int("audit-days", 0, "Also delete audit entries older than this many days (0 keeps all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *auditDays < 0 {
		return fmt.Errorf("audit-days must not be negative")
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := db.CleanupExpiredTokens()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Removed %d expired tokens\n", removed)

	if *auditDays > 0 {
		audit := services.NewAuditService(repositories.NewAuditLogRepository(db.DB), logger.Component(log, "audit"))
		purged, err := audit.PurgeOlderThan(time.Duration(*auditDays) * 24 * time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed %d audit entries older than %d days\n", purged, *auditDays)
	}
	return nil
}

func demoData(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("demo-data", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "Email of the account to fill")
	months := fs.Int("months", 3, "Number of months of history, ending this month")
	seed := fs.Uint64("seed", 0, "Generator seed (0 picks one at random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fmt.Fprintln(stdout, "Usage: manage demo-data -email <email> [-months N] [-seed N]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}
	if *months < 1 || *months > 24 {
		return fmt.Errorf("months must be between 1 and 24")
	}
	if cfg.IsProduction() {
		return fmt.Errorf("demo-data refuses to run in production")
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := repositories.NewUserRepository(db.DB).GetByEmail(strings.ToLower(*email))
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", *email, err)
	}

	var categories []models.Category
	if err := db.Where("user_id IS NULL").Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load default categories: %w", err)
	}

	txns := services.NewDemoGenerator(*seed).Generate(user.ID, categories, *months, time.Now().UTC())
	if len(txns) == 0 {
		return fmt.Errorf("no default categories found; run the seed command first")
	}
	if err := db.CreateInBatches(txns, 200).Error; err != nil {
		return fmt.Errorf("failed to insert demo transactions: %w", err)
	}

	fmt.Fprintf(stdout, "Created %d transactions for %s\n", len(txns), user.Username)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
