// Package model holds the read-side view of the admin registry: the
// cacheable routing and pricing lookups C8's metered proxy consults on
// every LLM/embedding call. Grounded on
// original_source/backend/app/models/admin_config.py.
package model

import "time"

// ResolvedRoute is what a task type resolves to: the concrete
// provider/model pair to call and its current pricing.
type ResolvedRoute struct {
	Provider        string
	Model           string
	ModelRegistryID string
	InputCostPer1K  float64
	OutputCostPer1K float64
	MarginMultiplier float64
}

// PricingSnapshot is one dated pricing row plus whether it is the one
// currently in effect.
type PricingSnapshot struct {
	ModelRegistryID  string
	InputCostPer1K   float64
	OutputCostPer1K  float64
	MarginMultiplier float64
	EffectiveDate    time.Time
	IsCurrent        bool
}
