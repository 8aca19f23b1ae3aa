/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/niraihan/real-estate-server/internal/api"
	"github.com/niraihan/real-estate-server/internal/auth"
	"github.com/niraihan/real-estate-server/internal/common"
	"github.com/niraihan/real-estate-server/internal/config"
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/spf13/cobra"
)

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func addUserCmd() *cobra.Command {
	var name, email, role string
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Provision a user with an explicit role",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			name = strings.TrimSpace(name)
			if err := api.ValidateEmail(strings.ToLower(email)); err != nil {
				return err
			}
			if err := validateName(name); err != nil {
				return err
			}
			if !models.Role(role).Valid() {
				return fmt.Errorf("unknown role %q (expected buyer, agent or admin)", role)
			}

			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				user, created, err := services.Market.ProvisionUser(ctx, &models.User{
					Email: email,
					Name:  name,
					Role:  models.Role(role),
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !created {
					fmt.Fprintf(out, "User already exists: %s (%s)\n", user.Email, user.Role)
					return nil
				}
				common.PrintHeader(out, "User created", 60)
				fmt.Fprintln(out, common.BoxPrefix(false)+"Id:    "+user.Id)
				fmt.Fprintln(out, common.BoxPrefix(false)+"Email: "+user.Email)
				fmt.Fprintln(out, common.BoxPrefix(true)+"Role:  "+string(user.Role))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "User's full name")
	cmd.Flags().StringVar(&email, "email", "", "User's email address")
	cmd.Flags().StringVar(&role, "role", string(models.RoleBuyer), "Role: buyer, agent or admin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users (requires --as admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				users, err := services.Market.ListUsers(ctx)
				if err != nil {
					return err
				}
				return common.PrintUsers(cmd.OutOrStdout(), users)
			})
		},
	}
}

func setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role (requires --as admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				res, err := services.Market.SetUserRole(ctx, args[0], models.Role(args[1]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "matched=%t modified=%t\n", res.Matched, res.Modified)
				return nil
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer credential for an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			tokens, err := auth.NewTokens(cfg.Auth)
			if err != nil {
				return err
			}
			token, expiresAt, err := tokens.Issue(email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email the credential asserts")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
