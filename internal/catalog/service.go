package catalog

import "errors"

// Category groups services on the services page.
type Category string

const (
	CategoryNeurology Category = "neurology"
	CategoryAstrology Category = "astrology"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryNeurology, CategoryAstrology}

var (
	// ErrServiceNotFound is returned when an id is not in the catalog
	ErrServiceNotFound = errors.New("service not found")

	// ErrUnknownCategory is returned for a category outside the enum
	ErrUnknownCategory = errors.New("unknown service category")
)

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// Service is a bookable offering. Price is in whole rupees.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Duration    string   `json:"duration"`
	Category    Category `json:"category"`
}
