package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/swastik-pharma/vetstore/internal/app"
	"github.com/swastik-pharma/vetstore/internal/auth"
	"github.com/swastik-pharma/vetstore/internal/platform/db"
	"github.com/swastik-pharma/vetstore/migrations"
)

// AdminService is the subset of auth.Service the admin commands use.
type AdminService interface {
	CreateAdmin(ctx context.Context, email, password, role string) (*auth.Admin, error)
	UpdateAdmin(ctx context.Context, email string, upd auth.AdminUpdate) (*auth.Admin, error)
	ListAdmins(ctx context.Context) ([]auth.Admin, error)
}

// env opens the resources a command needs. Tests replace its functions.
type env struct {
	admins  func(ctx context.Context) (AdminService, func(), error)
	migrate func(ctx context.Context) ([]string, error)
	seed    func(ctx context.Context) (seedReport, error)
}

func newEnv() *env {
	return &env{
		admins: func(ctx context.Context) (AdminService, func(), error) {
			cfg, pool, err := connect(ctx)
			if err != nil {
				return nil, nil, err
			}
			svc := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret, cfg.JWTTTL)
			return svc, pool.Close, nil
		},
		migrate: func(ctx context.Context) ([]string, error) {
			_, pool, err := connect(ctx)
			if err != nil {
				return nil, err
			}
			defer pool.Close()
			return db.Migrate(ctx, pool, fs.FS(migrations.Files))
		},
		seed: func(ctx context.Context) (seedReport, error) {
			_, pool, err := connect(ctx)
			if err != nil {
				return seedReport{}, err
			}
			defer pool.Close()
			return seedDemo(ctx, pool)
		},
	}
}

func connect(ctx context.Context) (*app.Config, *pgxpool.Pool, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(app.NewLogger(cfg))
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "vetadmin",
		Short: "Operate the vetstore database and admin accounts",
		Long: `vetadmin applies the embedded schema migrations and manages the
accounts that can sign in to the back office.

It reads the same environment (and .env files) as the API server.`,
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(e), newSeedCmd(e), newAdminCmd(e))
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := e.migrate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(out, "applied %s\n", v)
			}
			return nil
		},
	}
}
