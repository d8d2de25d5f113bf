package purchase_order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/entity"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/tx"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

// Service provides business operations for purchase orders.
type Service struct {
	repo       Repository
	parties    PartyRepository
	references ReferenceChecker
	rates      RateProvider
	currencies CurrencyResolver
	numerator  numerator.Generator
	txManager  tx.ReadOnlyManager
	auditor    Auditor

	defaultLanguage string
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo       Repository
	Parties    PartyRepository
	References ReferenceChecker
	Rates      RateProvider
	Currencies CurrencyResolver
	Numerator  numerator.Generator
	TxManager  tx.ReadOnlyManager
	// Auditor is optional
	Auditor Auditor

	DefaultLanguage string
}

// NewService creates a new purchase order service.
func NewService(d Deps) *Service {
	lang := strings.ToUpper(d.DefaultLanguage)
	if lang == "" {
		lang = "EN"
	}
	return &Service{
		repo:            d.Repo,
		parties:         d.Parties,
		references:      d.References,
		rates:           d.Rates,
		currencies:      d.Currencies,
		numerator:       d.Numerator,
		txManager:       d.TxManager,
		auditor:         d.Auditor,
		defaultLanguage: lang,
	}
}

// Create validates and persists doc with all its items in one transaction.
// On success doc carries the assigned ids, number, company code and the
// converted item amounts. On failure nothing is persisted.
// language selects the unit table; empty means the configured default.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder, language string) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	language = strings.ToUpper(strings.TrimSpace(language))
	if language == "" {
		language = s.defaultLanguage
	}

	rates := s.loadRates(ctx, doc)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkParties(ctx, doc); err != nil {
			return err
		}

		s.convertItems(ctx, doc, rates)

		if err := s.checkReferences(ctx, doc, language); err != nil {
			return err
		}

		number, err := s.numerator.NextOrderNumber(ctx, doc.CompanyCode, strings.TrimSpace(doc.ExternalNumber))
		if err != nil {
			return s.numberError(doc.CompanyCode, err)
		}
		doc.ExternalNumber = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
			return fmt.Errorf("save purchase order items: %w", err)
		}

		if s.auditor != nil {
			if err := s.auditor.Record(ctx, EntityType, doc.ID, doc); err != nil {
				return fmt.Errorf("audit purchase order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase order created",
		"id", doc.ID,
		"number", doc.ExternalNumber,
		"company_code", doc.CompanyCode,
		"items", len(doc.Items))

	return nil
}

// checkParties verifies vendor and recipient and takes the company code
// from the recipient.
func (s *Service) checkParties(ctx context.Context, doc *PurchaseOrder) error {
	recipient, err := s.parties.GetRecipient(ctx, doc.RecipientID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewForbidden("recipient does not exist").
				WithDetail("recipientId", doc.RecipientID)
		}
		return fmt.Errorf("load recipient: %w", err)
	}

	ok, err := s.parties.VendorExists(ctx, doc.VendorID)
	if err != nil {
		return fmt.Errorf("check vendor: %w", err)
	}
	if !ok {
		return apperror.NewForbidden("vendor does not exist").
			WithDetail("vendorId", doc.VendorID)
	}

	if doc.CompanyCode != "" && doc.CompanyCode != recipient.CompanyCode {
		logger.Debug(ctx, "company code taken from recipient",
			"requested", doc.CompanyCode,
			"recipient_company_code", recipient.CompanyCode)
	}
	doc.CompanyCode = recipient.CompanyCode
	return nil
}

// loadRates reads the rate table before the transaction opens. Orders
// whose items declare no currency never need it.
func (s *Service) loadRates(ctx context.Context, doc *PurchaseOrder) currency.Rates {
	if declaredCurrency(doc.Items) == "" {
		return nil
	}
	return s.rates.Get(ctx)
}

// declaredCurrency returns the first currency an item declares.
func declaredCurrency(items []Item) string {
	for _, item := range items {
		if c := currency.Normalize(item.Currency); c != "" {
			return c
		}
	}
	return ""
}

// convertItems rewrites every item into the document currency and assigns
// line numbers. The document currency follows the company code; without
// one it is the first declared item currency, else the base currency.
func (s *Service) convertItems(ctx context.Context, doc *PurchaseOrder, rates currency.Rates) {
	target := s.currencies.ResolveWithFallback(doc.CompanyCode, declaredCurrency(doc.Items), "")
	doc.Currency = target

	for i := range doc.Items {
		item := &doc.Items[i]
		item.LineNumber = entity.LineNumber(i + 1)

		from := currency.Normalize(item.Currency)
		if from == "" || from == target {
			item.Currency = target
			continue
		}

		item.NetAmount = currency.Convert(item.NetAmount, from, target, rates)
		if item.UpperLimitAmount != nil {
			converted := currency.Convert(*item.UpperLimitAmount, from, target, rates)
			item.UpperLimitAmount = &converted
		}
		item.Currency = target

		logger.Debug(ctx, "item amount converted",
			"line", item.LineNumber,
			"from", from,
			"to", target)
	}
}

func (s *Service) checkReferences(ctx context.Context, doc *PurchaseOrder, language string) error {
	for i := range doc.Items {
		item := &doc.Items[i]

		ok, err := s.references.UnitExists(ctx, item.Unit, language)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewReferenceData("unit", item.Unit, item.LineNumber).
				WithDetail("language", language)
		}

		if !item.HasTaxCode() {
			continue
		}
		ok, err = s.references.TaxCodeValid(ctx, *item.TaxCode, doc.CompanyCode)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewReferenceData("taxCode", *item.TaxCode, item.LineNumber).
				WithDetail("companyCode", doc.CompanyCode)
		}
	}
	return nil
}

func (s *Service) numberError(companyCode string, err error) error {
	var exhausted *numerator.ExhaustedError
	if errors.As(err, &exhausted) {
		return apperror.NewNumberExhausted(companyCode, exhausted.Attempts).WithCause(err)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return fmt.Errorf("generate order number: %w", err)
}

// GetByID retrieves a purchase order with its items from one read-only
// snapshot.
func (s *Service) GetByID(ctx context.Context, id int64) (*PurchaseOrder, error) {
	var doc *PurchaseOrder
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		items, err := s.repo.GetItems(ctx, id)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		doc.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
