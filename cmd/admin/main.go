// Command admin bootstraps tenants and recovers accounts from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bizdesk-api/internal/config"
	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/service"
	"bizdesk-api/pkg/database"
	"bizdesk-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "BizDesk administration commands",
		SilenceUsage: true,
	}
	root.AddCommand(newSeedCmd(), newResetPasswordCmd())
	return root
}

// tenants connects to the configured database and returns the tenant service.
func tenants() (service.TenantService, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	zlog := logger.NewForEnvironment(cfg.App.Env, cfg.Log.Level)

	db, err := database.ConnectDB(cfg.Database, zlog)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	companies := repository.NewCompanyRepo()
	permissions := repository.NewPermissionRepo(db)
	roles := repository.NewRoleRepo(permissions)
	users := repository.NewUserRepo(db, roles)
	return service.NewTenantService(db, companies, permissions, roles, users, zlog), zlog, nil
}

func newSeedCmd() *cobra.Command {
	req := &service.CreateCompanyRequest{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a company with an Admin role and its owner account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, zlog, err := tenants()
			if err != nil {
				return err
			}
			defer zlog.Sync()

			company, owner, err := svc.CreateCompany(req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company %s created (id %s)\nOwner: %s\n", company.Name, company.ID, owner.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CompanyName, "company", "", "company name")
	cmd.Flags().StringVar(&req.OwnerName, "name", "Owner", "owner display name")
	cmd.Flags().StringVar(&req.OwnerEmail, "email", "", "owner email (login)")
	cmd.Flags().StringVar(&req.OwnerPassword, "password", "", "owner password")
	cmd.Flags().StringVar(&req.TaxIsGST, "gst", model.No, "whether the company charges GST (Yes|No)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a staff account and sign out its sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, zlog, err := tenants()
			if err != nil {
				return err
			}
			defer zlog.Sync()

			if err := svc.ResetPassword(email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
