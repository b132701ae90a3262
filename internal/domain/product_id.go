package domain

import "strings"

const maxProductIDLength = 100

// ProductID identifies a product within a cart. Values are trimmed at
// construction and compare with ==.
type ProductID string

func NewProductID(value string) (ProductID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invariantf("product ID must be a non-empty string")
	}

	if len(trimmed) > maxProductIDLength {
		return "", invariantf("product ID cannot exceed %d characters", maxProductIDLength)
	}

	return ProductID(trimmed), nil
}

func (p ProductID) String() string { return string(p) }
