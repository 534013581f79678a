// Package format renders amounts and composes the textual summary shared
// with the email and image exporters.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/patungan/splitbill/internal/models"
)

// Num renders a numeric value with thousands separators and at most two
// decimal places, rounding the rest and dropping trailing fractional zeros:
//
//	7000    -> "7,000"
//	7000.00 -> "7,000"
//	7000.5  -> "7,000.5"
//	7000.25 -> "7,000.25"
//	0.999   -> "1"
func Num(v float64) string {
	// CommafWithDigits truncates extra decimals, so round first: tax
	// shares are rarely exact cents.
	return humanize.CommafWithDigits(math.Round(v*100)/100, 2)
}

// Subject builds the email subject, including the restaurant name when set.
func Subject(restaurantName string) string {
	if restaurantName != "" {
		return "Split Bill Summary: " + restaurantName
	}
	return "Split Bill Summary"
}

// AccountsText lists the initiator's payment accounts, or a fallback line
// when none were provided.
func AccountsText(accounts []models.PaymentAccount) string {
	if len(accounts) == 0 {
		return "Please pay to the initiator (account details to be provided)."
	}
	lines := []string{"Please pay to one of these accounts:"}
	for _, acc := range accounts {
		lines = append(lines, fmt.Sprintf("- %s: %s", acc.Label, acc.Detail))
	}
	return strings.Join(lines, "\n")
}

// EmailBody composes the plain-text bill summary addressed to one person.
func EmailBody(summary models.Summary, person models.PersonBreakdown) string {
	var lines []string
	lines = append(lines, restaurantLines(summary.Restaurant)...)
	lines = append(lines,
		fmt.Sprintf("Hi %s,", person.Name),
		"",
		"Here is your split bill summary:",
		"",
	)

	for _, line := range person.Lines {
		lines = append(lines, itemLine("- ", line))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Subtotal: %s", Num(person.Subtotal)),
		fmt.Sprintf("Tax (your share): %s", Num(person.TaxShare)),
		fmt.Sprintf("Total you should pay: %s", Num(person.Total)),
		"",
		AccountsText(summary.Initiator.Accounts),
		"",
		"Thank you!",
	)
	return strings.Join(lines, "\n")
}

// SummaryLines builds the full bill summary as display lines: header,
// payment accounts, then every person's total with indented item lines.
// The image exporter rasterizes these verbatim; the first line is the title.
func SummaryLines(summary models.Summary) []string {
	lines := []string{"Split Bill Summary"}
	lines = append(lines, restaurantLines(summary.Restaurant)...)

	init := summary.Initiator
	if init.Name != "" || init.Email != "" {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("Initiator: %s (%s)", init.Name, init.Email)))
	}
	if len(init.Accounts) > 0 {
		lines = append(lines, "", "Payment Accounts:")
		for _, acc := range init.Accounts {
			lines = append(lines, fmt.Sprintf("- %s: %s", acc.Label, acc.Detail))
		}
	}

	lines = append(lines, "", "Details per person:")
	for _, person := range summary.People {
		header := person.Name
		if person.Email != "" {
			header = fmt.Sprintf("%s (%s)", person.Name, person.Email)
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", header, Num(person.Total)))
		for _, line := range person.Lines {
			lines = append(lines, itemLine("    * ", line))
		}
	}
	return lines
}

func restaurantLines(rest models.RestaurantInfo) []string {
	var lines []string
	if rest.Name != "" {
		lines = append(lines, rest.Name)
	}
	if rest.Address != "" {
		lines = append(lines, rest.Address)
	}
	if rest.Phone != "" {
		lines = append(lines, "Ph: "+rest.Phone)
	}
	return lines
}

func itemLine(prefix string, line models.BreakdownLine) string {
	return fmt.Sprintf("%s%s: %s x %s = %s",
		prefix, line.Item, Num(line.Quantity), Num(line.UnitPrice), Num(line.Amount))
}
