// Command bootstrap-admin seeds the first admin account. Run once after
// migrations; existing accounts are promoted instead of duplicated.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/model"
	"github.com/tiw25999/license-plate-system/internal/repository"
)

type output struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Created  bool   `json:"created"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "admin", "Admin username")
		email       = flag.String("email", "", "Admin email")
		password    = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "password is required (flag or ADMIN_PASSWORD)")
		os.Exit(1)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, created, err := ensureAdmin(ctx, repo, *username, *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Created:  created,
	}

	if *format == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(out)
		return
	}

	if created {
		fmt.Printf("created admin %s (%s)\n", out.Username, out.UserID)
	} else {
		fmt.Printf("promoted existing user %s (%s) to admin\n", out.Username, out.UserID)
	}
}

// ensureAdmin creates the account with the admin role, or promotes an
// existing account with the same username.
func ensureAdmin(ctx context.Context, repo *repository.Repository, username, email, password string) (*model.User, bool, error) {
	existing, err := repo.GetUserByUsername(ctx, username)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			if err := repo.UpdateUserRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return nil, false, fmt.Errorf("promote user: %w", err)
			}
			existing.Role = model.RoleAdmin
		}
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           "u_" + ulid.Make().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	return user, true, nil
}
