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
	"os"

	"github.com/niraihan/real-estate-server/internal/common"
	"github.com/niraihan/real-estate-server/internal/config"
	"github.com/niraihan/real-estate-server/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// asEmail is the operator identity attached to every service call.
var asEmail string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operator tooling for the real estate marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&asEmail, "as", os.Getenv("MARKETCTL_AS"), "Email of the account to act as (admin for moderation commands)")

	rootCmd.AddCommand(
		addUserCmd(),
		usersCmd(),
		setRoleCmd(),
		tokenCmd(),
		settleCmd(),
		markFraudCmd(),
		removeReportedCmd(),
		salesCmd(),
	)
	return rootCmd
}

// withServices loads configuration, opens the store and runs fn with a
// context carrying the --as identity.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, cfg *models.Config, services *common.Services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := cmd.Context()
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer services.Close()

	if asEmail != "" {
		ctx = models.WithIdentity(ctx, models.Identity{Email: asEmail})
		zap.L().Info("Acting as", zap.String("email", asEmail))
	}
	return fn(ctx, cfg, services)
}
