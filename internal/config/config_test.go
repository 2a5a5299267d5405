package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 150.0, cfg.ShippingRateStandard)
	assert.Equal(t, 250.0, cfg.ShippingRateExpress)
	assert.Equal(t, 500.0, cfg.ShippingRateOvernight)
	assert.Equal(t, 0.16, cfg.TaxRate)
	assert.Equal(t, "general", cfg.DefaultCategorySlug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHIPPING_RATE_EXPRESS", "300.5")
	t.Setenv("TAX_RATE", "0.08")
	t.Setenv("DEFAULT_CATEGORY_SLUG", "velas")
	t.Setenv("ADMIN_EMAIL", "admin@mistika.mx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 300.5, cfg.ShippingRateExpress)
	assert.Equal(t, 0.08, cfg.TaxRate)
	assert.Equal(t, "velas", cfg.DefaultCategorySlug)
	assert.Equal(t, "admin@mistika.mx", cfg.AdminEmail)
}

func TestLoadRejectsNonNumericRate(t *testing.T) {
	t.Setenv("SHIPPING_RATE_STANDARD", "free")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNegativeRate(t *testing.T) {
	t.Setenv("SHIPPING_RATE_OVERNIGHT", "-1")

	_, err := Load()
	assert.Error(t, err)
}
