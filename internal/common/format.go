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
package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/niraihan/real-estate-server/internal/models"
)

// PrintSeparator prints a separator line of the given width
func PrintSeparator(w io.Writer, char string, width int) {
	fmt.Fprintln(w, strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(w io.Writer, title string, width int) {
	fmt.Fprintln(w)
	PrintSeparator(w, "=", width)
	fmt.Fprintln(w, title)
	PrintSeparator(w, "=", width)
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

func PrintUsers(w io.Writer, users []models.User) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tFRAUD")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.Id, u.Email, u.Name, u.Role, u.Fraud)
	}
	return tw.Flush()
}

func PrintSales(w io.Writer, sales []models.SaleRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROPERTY\tBUYER\tAGENT\tAMOUNT\tTRANSACTION\tSOLD AT")
	for _, s := range sales {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.PropertyId, s.BuyerEmail, s.AgentEmail, s.SoldPrice.StringFixed(2),
			s.TransactionId, s.SoldAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}

// PrintSettlement summarizes a settlement outcome as a box-drawn tree.
func PrintSettlement(w io.Writer, r *models.SettlementResult) {
	PrintHeader(w, "Settlement", 60)
	lines := []string{
		fmt.Sprintf("Offer:            %s", r.OfferId),
		fmt.Sprintf("Property:         %s", r.PropertyId),
		fmt.Sprintf("Transaction:      %s", r.TransactionId),
		fmt.Sprintf("Offer updated:    %t", r.OfferUpdated),
		fmt.Sprintf("Rejected rivals:  %d", r.CompetingRejected),
		fmt.Sprintf("Sale recorded:    %t", r.SaleRecordInserted),
		fmt.Sprintf("Marked sold:      %t", r.PropertyMarkedSold),
	}
	for i, line := range lines {
		fmt.Fprintln(w, BoxPrefix(i == len(lines)-1)+line)
	}
}
