package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POS_SERVICE_ADDR", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("INVOICE_TERMS_DAYS", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.POSAddr)
	assert.Equal(t, "0.08", cfg.TaxRate.String())
	assert.Equal(t, 14*24*time.Hour, cfg.InvoiceTerms)
	assert.Equal(t, 3, cfg.RetryAttempts)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TAX_RATE", "-1")
	t.Setenv("RETRY_ATTEMPTS", "zero")
	t.Setenv("SESSION_TTL", "soon")

	cfg := Load()

	assert.Equal(t, "0.08", cfg.TaxRate.String())
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TAX_RATE", "0.16")
	t.Setenv("INVOICE_TERMS_DAYS", "30")
	t.Setenv("RETRY_BASE_DELAY", "1s")

	cfg := Load()

	assert.Equal(t, "0.16", cfg.TaxRate.String())
	assert.Equal(t, 30*24*time.Hour, cfg.InvoiceTerms)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
}
