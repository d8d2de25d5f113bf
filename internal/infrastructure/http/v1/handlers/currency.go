package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/dto"
)

// RateCache is the part of currency.RateCache the handler uses.
type RateCache interface {
	Get(ctx context.Context) currency.Rates
	Refresh(ctx context.Context)
	Snapshot() currency.Snapshot
}

// CurrencyResolver picks the currency of a company.
type CurrencyResolver interface {
	ResolveCurrency(companyCode string) string
}

// CurrencyHandler exposes exchange rates and conversions.
type CurrencyHandler struct {
	*BaseHandler
	rates    RateCache
	resolver CurrencyResolver
}

// NewCurrencyHandler creates a new currency handler.
func NewCurrencyHandler(base *BaseHandler, rates RateCache, resolver CurrencyResolver) *CurrencyHandler {
	return &CurrencyHandler{BaseHandler: base, rates: rates, resolver: resolver}
}

// Rates handles GET /exchange-rates.
func (h *CurrencyHandler) Rates(c *gin.Context) {
	h.rates.Get(c.Request.Context())
	h.OK(c, dto.FromSnapshot(h.rates.Snapshot()))
}

// Refresh handles POST /exchange-rates/refresh.
func (h *CurrencyHandler) Refresh(c *gin.Context) {
	h.rates.Refresh(c.Request.Context())
	h.OK(c, dto.FromSnapshot(h.rates.Snapshot()))
}

// Convert handles GET /currency/convert?amount=&from=&to=.
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req dto.ConvertRequest
	if !h.BindQuery(c, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid amount").WithDetail("amount", req.Amount))
		return
	}

	from := currency.Normalize(req.From)
	to := currency.Normalize(req.To)
	converted := currency.Convert(amount, from, to, h.rates.Get(c.Request.Context()))

	h.OK(c, dto.ConvertResponse{
		Amount:    amount.String(),
		From:      from,
		To:        to,
		Converted: converted.StringFixed(2),
	})
}

// Resolve handles GET /currency/resolve?companyCode=.
func (h *CurrencyHandler) Resolve(c *gin.Context) {
	code := c.Query("companyCode")
	h.OK(c, dto.ResolveResponse{
		CompanyCode: code,
		Currency:    h.resolver.ResolveCurrency(code),
	})
}
