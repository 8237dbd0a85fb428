// Package embedding defines the provider-agnostic embedding interface
// C9's fit-score components (hard/soft skills, role title) and C8's
// metered embedding proxy are built on.
package embedding

import "context"

// Result is what a provider returns from a successful Embed call.
// TotalTokens is -1 when the provider transparently chunked the batch
// (spec.md §6) — callers fall back to an estimate of sum(len(text))/4.
type Result struct {
	Vectors     [][]float32
	Model       string
	Dimensions  int
	TotalTokens int
}

// Provider is the interface every concrete embedding adapter and the
// metered proxy both implement.
type Provider interface {
	ProviderName() string
	Embed(ctx context.Context, texts []string) (*Result, error)
	Dimensions() int
}
