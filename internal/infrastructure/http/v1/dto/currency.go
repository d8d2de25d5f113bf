package dto

import (
	"time"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
)

// ConvertRequest holds the query of GET /currency/convert.
type ConvertRequest struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required"`
	To     string `form:"to" binding:"required"`
}

// ConvertResponse is the converted amount.
type ConvertResponse struct {
	Amount    string `json:"amount"`
	From      string `json:"from"`
	To        string `json:"to"`
	Converted string `json:"converted"`
}

// ResolveResponse is the currency chosen for a company.
type ResolveResponse struct {
	CompanyCode string `json:"companyCode"`
	Currency    string `json:"currency"`
}

// RatesResponse is the content of the exchange rate cache.
type RatesResponse struct {
	Base        string            `json:"base"`
	Rates       map[string]string `json:"rates"`
	RefreshedAt *time.Time        `json:"refreshedAt,omitempty"`
	Fallback    bool              `json:"fallback"`
	Stale       bool              `json:"stale"`
}

// FromSnapshot creates response DTO from a cache snapshot.
func FromSnapshot(s currency.Snapshot) RatesResponse {
	resp := RatesResponse{
		Base:     currency.Base,
		Rates:    make(map[string]string, len(s.Rates)),
		Fallback: s.Fallback,
		Stale:    s.Stale,
	}
	for code, rate := range s.Rates {
		resp.Rates[code] = rate.String()
	}
	if !s.RefreshedAt.IsZero() {
		t := s.RefreshedAt
		resp.RefreshedAt = &t
	}
	return resp
}
