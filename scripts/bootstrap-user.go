// Command bootstrap-user provisions an account and prints its API key.
//
// The user ID doubles as the MCP credential, so the printed value is
// what goes into the client's --api_key argument.
//
// Usage:
//
//	go run scripts/bootstrap-user.go -email you@example.com -name "Tu Empresa"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/repository"
)

type output struct {
	UserID              string `json:"user_id"`
	APIKey              string `json:"api_key"`
	Email               string `json:"email"`
	Name                string `json:"name"`
	MonthlyInvoiceLimit int    `json:"monthly_invoice_limit"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "", "User email (required)")
		name        = flag.String("name", "", "Company name shown on invoices")
		limit       = flag.Int("limit", 10, "Monthly invoice limit")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *email == "" {
		fmt.Fprintln(os.Stderr, "email is required")
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

	user := &model.User{
		ID:                  uuid.NewString(),
		Email:               *email,
		Name:                *name,
		MonthlyInvoiceLimit: *limit,
		CurrentInvoiceUsage: 0,
		CreatedAt:           time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	out := output{
		UserID:              user.ID,
		APIKey:              user.ID,
		Email:               user.Email,
		Name:                user.Name,
		MonthlyInvoiceLimit: user.MonthlyInvoiceLimit,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.APIKey)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
