// create-admin provisions a dashboard account. There is no public
// sign-up route, so this is the only way accounts come into existence.
//
// Usage:
//
//	create-admin -email ops@example.com -name "Operations" -password "..."
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"chauffeurtop_backend/internal/auth/repository"
	"chauffeurtop_backend/internal/auth/service"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/db"
	"chauffeurtop_backend/platform/logger"
)

func main() {
	email := flag.String("email", "", "email address for the new account")
	name := flag.String("name", "", "display name for the new account")
	password := flag.String("password", "", "initial password (minimum 8 characters)")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || strings.TrimSpace(*name) == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect to database:", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := service.New(repository.New(pool), cfg, log)

	user, err := svc.CreateAdmin(ctx, *email, *name, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create admin:", err)
		os.Exit(1)
	}

	fmt.Printf("created admin %s (%s) with id %s\n", user.Name, user.Email, user.ID)
}
