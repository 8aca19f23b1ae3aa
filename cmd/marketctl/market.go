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

	"github.com/niraihan/real-estate-server/internal/common"
	"github.com/niraihan/real-estate-server/internal/models"
	"github.com/niraihan/real-estate-server/internal/store"

	"github.com/spf13/cobra"
)

func settleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <offer-id> <transaction-id>",
		Short: "Settle a paid offer, re-driving a partially applied settlement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				result, err := services.Market.Settle(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				common.PrintSettlement(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func markFraudCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-fraud <user-id>",
		Short: "Flag an agent as fraudulent and delete every listing they own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				result, err := services.Market.MarkFraudulent(ctx, args[0])
				if result != nil {
					out := cmd.OutOrStdout()
					common.PrintHeader(out, "Fraud cascade: "+result.AgentEmail, 60)
					fmt.Fprintf(out, "%sFlag updated:        %t\n", common.BoxPrefix(false), result.FlagUpdated)
					fmt.Fprintf(out, "%sProperties deleted:  %d\n", common.BoxPrefix(false), result.PropertiesDeleted)
					fmt.Fprintf(out, "%sOffers rejected:     %d\n", common.BoxPrefix(true), result.OffersRejected)
				}
				return err
			})
		},
	}
}

func removeReportedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-reported <property-id>",
		Short: "Delete a reported listing with its reviews and reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				result, err := services.Market.RemoveReportedProperty(ctx, args[0])
				if result != nil {
					out := cmd.OutOrStdout()
					common.PrintHeader(out, "Removed property "+result.PropertyId, 60)
					fmt.Fprintf(out, "%sProperty:  %d\n", common.BoxPrefix(false), result.PropertyDeleted)
					fmt.Fprintf(out, "%sReviews:   %d\n", common.BoxPrefix(false), result.ReviewsDeleted)
					fmt.Fprintf(out, "%sReports:   %d\n", common.BoxPrefix(false), result.ReportsDeleted)
					fmt.Fprintf(out, "%sOffers:    %d\n", common.BoxPrefix(true), result.OffersRejected)
				}
				return err
			})
		},
	}
}

func salesCmd() *cobra.Command {
	var filter store.SaleFilter
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "List sale records (requires --as admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, _ *models.Config, services *common.Services) error {
				sales, err := services.Market.ListSales(ctx, filter)
				if err != nil {
					return err
				}
				return common.PrintSales(cmd.OutOrStdout(), sales)
			})
		},
	}
	cmd.Flags().StringVar(&filter.AgentEmail, "agent", "", "Only sales by this agent")
	cmd.Flags().StringVar(&filter.BuyerEmail, "buyer", "", "Only sales to this buyer")
	return cmd
}
