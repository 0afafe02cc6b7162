package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/visionify/partner-api/internal/pricing"
)

func main() {
	tablePath := flag.String("table", "config/pricing.json", "path to the pricing table")
	cameras := flag.Int("cameras", 0, "total camera count")
	subscription := flag.String("subscription", "yearly", "subscription term id")
	discount := flag.Float64("discount", 0, "discount percentage")
	scenarios := flag.String("scenarios", "", "comma-separated scenario ids")
	everything := flag.Bool("everything", false, "price with the all-scenarios package")
	infrastructure := flag.Bool("infrastructure", false, "include per-camera infrastructure cost")
	currency := flag.String("currency", "", "second display currency (uses the table's static rate)")
	asJSON := flag.Bool("json", false, "print the full quote as JSON")
	flag.Parse()

	table, err := pricing.LoadTable(*tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load pricing table: %v\n", err)
		os.Exit(1)
	}

	input := pricing.Input{
		ClientName:            "Preview",
		ClientCompany:         "Preview",
		Date:                  time.Now(),
		TotalCameras:          *cameras,
		SubscriptionType:      *subscription,
		DiscountPercentage:    *discount,
		EverythingPackage:     *everything,
		IncludeInfrastructure: *infrastructure,
	}
	if *scenarios != "" {
		for _, id := range strings.Split(*scenarios, ",") {
			if id = strings.TrimSpace(id); id != "" {
				input.SelectedScenarios = append(input.SelectedScenarios, id)
			}
		}
	}
	if *currency != "" {
		input.ShowSecondCurrency = true
		input.SecondCurrency = *currency
	}

	quote, err := pricing.ComputeQuote(table, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to compute quote: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Quote preview (%s, %d cameras)\n\n", quote.SubscriptionName, quote.TotalCameras)
	fmt.Printf("Tier: %s @ %.2f/camera/month\n", quote.TierName, quote.PerCameraPrice)
	fmt.Printf("Additional cameras: %d (%.2f/month)\n", quote.AdditionalCameras, quote.AdditionalCameraCost)
	if quote.InfrastructureCost > 0 {
		fmt.Printf("Infrastructure: %.2f/month\n", quote.InfrastructureCost)
	}
	fmt.Printf("One-time cost: %.2f\n", quote.OneTimeBaseCost)
	fmt.Printf("Monthly recurring: %.2f\n", quote.MonthlyRecurring)
	fmt.Printf("Annual recurring: %.2f\n", quote.AnnualRecurring)
	if quote.DiscountAmount > 0 {
		fmt.Printf("Discount (%.1f%%): -%.2f\n", quote.DiscountPercentage, quote.DiscountAmount)
		fmt.Printf("Discounted annual: %.2f\n", quote.DiscountedAnnualRecurring)
	}
	fmt.Printf("Total contract value (%d months): %.2f\n", quote.ContractLengthMonths, quote.TotalContractValue)
	if quote.SecondCurrency != nil {
		fmt.Printf("\nIn %s (rate %.4f): total %.2f\n",
			quote.SecondCurrency.Code, quote.SecondCurrency.Rate, quote.SecondCurrency.TotalContractValue)
	}
}
