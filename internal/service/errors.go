package service

import (
	"github.com/airyshop/storefront/internal/domain"
)

// Cart errors
var (
	ErrProductNotFound  = domain.ErrProductNotFound
	ErrCartItemNotFound = domain.ErrCartItemNotFound
	ErrInvalidQuantity  = domain.ErrInvalidQuantity
	ErrEmptyCart        = domain.ErrCartEmpty
)

// Checkout errors
var (
	ErrSessionNotFound    = domain.ErrSessionNotFound
	ErrInvalidTransition  = domain.ErrInvalidTransition
	ErrUnknownPayMethod   = domain.ErrUnknownPayMethod
	ErrSettlementConflict = domain.ErrSettlementConflict
)

// Order errors
var (
	ErrOrderNotFound = domain.ErrOrderNotFound
)
