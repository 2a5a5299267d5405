package usecase

// 送料テーブルと税率。ハードコードせず起動時に設定から注入する。
type PricingConfig struct {
	ShippingRates map[string]float64

	//未知・未指定の配送方法が落ちる先（standard）
	DefaultShippingMethod string

	TaxRate float64
}

type PricingItem struct {
	UnitPrice float64
	Quantity  int64
}

type PricingResult struct {
	Subtotal     float64
	ShippingCost float64
	Tax          float64
	Total        float64
}

type PricingEngine struct {
	cfg PricingConfig
}

func NewPricingEngine(cfg PricingConfig) *PricingEngine {
	return &PricingEngine{cfg: cfg}
}

func (e *PricingEngine) DefaultMethod() string {
	return e.cfg.DefaultShippingMethod
}

// Compute は小計・送料・税・合計を計算する。
// 丸めは表示側の責務なのでここでは一切行わない。
func (e *PricingEngine) Compute(items []PricingItem, shippingMethod string) PricingResult {
	var subtotal float64
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}

	//未知の配送方法はエラーにせずstandard扱い
	cost, ok := e.cfg.ShippingRates[shippingMethod]
	if !ok {
		cost = e.cfg.ShippingRates[e.cfg.DefaultShippingMethod]
	}

	tax := subtotal * e.cfg.TaxRate

	return PricingResult{
		Subtotal:     subtotal,
		ShippingCost: cost,
		Tax:          tax,
		Total:        subtotal + cost + tax,
	}
}
