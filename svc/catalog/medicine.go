package catalog

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/pharmakit/pkg/cart"
)

// Medicine is a catalog entry.
type Medicine struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ExpiryDate  string  `json:"expiryDate,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// Product converts m into something the cart accepts.
func (m Medicine) Product() cart.Product {
	return cart.Product{ID: m.ID, Name: m.Name, Price: m.Price}
}

// Validate checks the fields the pharmacist form requires.
func (m Medicine) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if m.Price < 0 {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if m.Stock < 0 {
		errs = append(errs, errors.New("stock must not be negative"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidMedicine}, errs...)...)
	}
	return nil
}
