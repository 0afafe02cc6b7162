package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/exchange"
	"github.com/visionify/partner-api/internal/pricing"
	"github.com/visionify/partner-api/internal/repository"
)

type quoteService struct {
	table    *pricing.Table
	repos    *repository.Repositories
	exchange *exchange.Client
	logger   *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(table *pricing.Table, repos *repository.Repositories, exchangeClient *exchange.Client, logger *zap.Logger) *quoteService {
	return &quoteService{
		table:    table,
		repos:    repos,
		exchange: exchangeClient,
		logger:   logger,
	}
}

// Preview computes a quote without persisting anything
func (s *quoteService) Preview(ctx context.Context, req QuoteRequest) (*pricing.QuoteDetails, error) {
	input := s.buildInput(ctx, req)
	return pricing.ComputeQuote(s.table, input)
}

// CreateQuote computes a quote and persists the resulting snapshot
func (s *quoteService) CreateQuote(ctx context.Context, creator *domain.User, req QuoteRequest) (*domain.Quote, *pricing.QuoteDetails, error) {
	input := s.buildInput(ctx, req)

	details, err := pricing.ComputeQuote(s.table, input)
	if err != nil {
		return nil, nil, err
	}

	quote := &domain.Quote{
		CreatedBy:          creator.ID,
		ClientName:         details.ClientName,
		ClientCompany:      details.ClientCompany,
		SubscriptionType:   details.SubscriptionType,
		TotalCameras:       details.TotalCameras,
		SelectedScenarios:  details.SelectedScenarios,
		DiscountPercentage: details.DiscountPercentage,
		QuoteDate:          details.Date,

		OneTimeBaseCost:           details.OneTimeBaseCost,
		AdditionalCameras:         details.AdditionalCameras,
		AdditionalCameraCost:      details.AdditionalCameraCost,
		MonthlyRecurring:          details.MonthlyRecurring,
		AnnualRecurring:           details.AnnualRecurring,
		DiscountAmount:            details.DiscountAmount,
		DiscountedAnnualRecurring: details.DiscountedAnnualRecurring,
		ContractLengthMonths:      details.ContractLengthMonths,
		TotalContractValue:        details.TotalContractValue,
	}
	if details.ClientEmail != "" {
		quote.ClientEmail = &details.ClientEmail
	}
	if details.ClientAddress != "" {
		quote.ClientAddress = &details.ClientAddress
	}
	if details.ClientCity != "" {
		quote.ClientCity = &details.ClientCity
	}
	if details.SecondCurrency != nil {
		quote.SecondCurrencyCode = &details.SecondCurrency.Code
		quote.ExchangeRate = &details.SecondCurrency.Rate
		updatedAt := details.SecondCurrency.UpdatedAt
		quote.RateUpdatedAt = &updatedAt
	}

	if err := s.repos.Quote.Create(ctx, quote); err != nil {
		return nil, nil, err
	}

	return quote, details, nil
}

// buildInput assembles the engine input from the request, resolving the
// live exchange rate when a secondary currency was requested without an
// explicit rate. A failed fetch is not an error here: the engine falls back
// to the table's static rate.
func (s *quoteService) buildInput(ctx context.Context, req QuoteRequest) pricing.Input {
	input := pricing.Input{
		ClientName:    req.ClientName,
		ClientCompany: req.ClientCompany,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		ClientCity:    req.ClientCity,
		Date:          time.Now(),

		TotalCameras:       req.TotalCameras,
		SubscriptionType:   req.SubscriptionType,
		DiscountPercentage: req.DiscountPercentage,
		SelectedScenarios:  req.SelectedScenarios,
		EverythingPackage:  req.EverythingPackage,

		IncludeInfrastructure: req.IncludeInfrastructure,
		UseCustomPricing:      req.UseCustomPricing,
		CustomPricing: pricing.CustomPricing{
			Tier1:          req.CustomTier1,
			Tier2:          req.CustomTier2,
			Tier3:          req.CustomTier3,
			Infrastructure: req.CustomInfrastructure,
		},

		IncludeEdgeServer: req.IncludeEdgeServer,
		EdgeServerCost:    req.EdgeServerCost,
		ImplementationFee: req.ImplementationFee,
		TravelFee:         req.TravelFee,
		SpeakerCost:       req.SpeakerCost,

		ShowSecondCurrency: req.ShowSecondCurrency,
		SecondCurrency:     req.SecondCurrency,
		ExchangeRate:       req.ExchangeRate,
	}

	if req.ShowSecondCurrency && req.ExchangeRate == 0 && s.exchange != nil {
		if rates, err := s.exchange.Fetch(ctx); err == nil {
			if rate, ok := rates.Rates[req.SecondCurrency]; ok {
				input.ExchangeRate = rate
				input.RateUpdatedAt = rates.UpdatedAt
			}
		} else {
			s.logger.Warn("Exchange rate fetch failed, using static table rate", zap.Error(err))
		}
	}

	return input
}
