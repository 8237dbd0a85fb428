// Package model holds the admin-managed registry entities: which
// provider/model pairs exist, their pricing history, which model a
// task type routes to, and the credit packs users can purchase.
// Grounded on original_source/backend/app/models/admin_config.py.
package model

import (
	"errors"
	"time"
)

type ModelType string

const (
	ModelTypeLLM       ModelType = "llm"
	ModelTypeEmbedding ModelType = "embedding"
)

// ModelRegistryEntry is one provider/model pair admins have enabled.
type ModelRegistryEntry struct {
	ID          string
	Provider    string
	Model       string
	DisplayName string
	ModelType   ModelType
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PricingConfig is a dated pricing entry for a registry entry; the
// entry whose EffectiveDate is the latest one <= today is current.
type PricingConfig struct {
	ID               string
	ModelRegistryID  string
	InputCostPer1K   float64
	OutputCostPer1K  float64
	MarginMultiplier float64
	EffectiveDate    time.Time
	CreatedAt        time.Time
}

// TaskRoutingConfig maps a task type to the model that should serve it.
// TaskType "_default" is the fallback used when no specific row exists.
type TaskRoutingConfig struct {
	ID              string
	Provider        string
	TaskType        string
	ModelRegistryID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const DefaultTaskType = "_default"

// CreditPack is a purchasable bundle of credits shown in billing UI.
type CreditPack struct {
	ID            string
	Name          string
	PriceCents    int
	CreditAmount  float64
	StripePriceID *string
	DisplayOrder  int
	IsActive      bool
	Description   *string
	HighlightLabel *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SystemConfig is a flat admin-editable key/value setting.
type SystemConfig struct {
	Key         string
	Value       string
	Description *string
}

var (
	ErrModelNotFound       = errors.New("MODEL_NOT_FOUND")
	ErrModelInUse          = errors.New("MODEL_IN_USE")
	ErrLastPricing         = errors.New("LAST_PRICING")
	ErrCannotDemoteSelf    = errors.New("CANNOT_DEMOTE_SELF")
	ErrAdminEmailsProtected = errors.New("ADMIN_EMAILS_PROTECTED")
	ErrDuplicateModel      = errors.New("DUPLICATE_MODEL")
	ErrDuplicatePricing    = errors.New("DUPLICATE_PRICING")
	ErrCreditPackNotFound  = errors.New("credit pack not found")
)
