// Command user-admin creates or updates an account with a bcrypt-hashed
// password, or prints a hash for manual seeding with -hash-only.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"formcount/internal/auth"
	"formcount/internal/cli"
	"formcount/internal/config"
	"formcount/internal/core"
	"formcount/internal/log"
	"formcount/internal/services"
)

func main() {
	var (
		username     = flag.String("username", "", "account username")
		password     = flag.String("password", "", "account password")
		role         = flag.String("role", core.RoleUser, "account role (admin|user)")
		constituency = flag.Int64("constituency", 0, "constituency number carried in the token")
		hashOnly     = flag.Bool("hash-only", false, "print the bcrypt hash of -password and exit")
	)
	flag.Parse()

	if *hashOnly {
		hash, err := auth.HashPassword(*password)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentAuth)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, 1)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := services.NewAuthService(repo, auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL))
	id, err := users.CreateUser(ctx, *username, *password, *role, *constituency)
	if err != nil {
		logger.Error("Failed to save user", "error", err, "username", *username)
		os.Exit(1)
	}
	logger.Info("User saved", "id", id, "username", *username, "role", *role, "constituency", *constituency)
}
