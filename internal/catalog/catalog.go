// Package catalog holds the clinic's fixed list of bookable services.
package catalog

import "strings"

// Catalog is an ordered, read-only set of services.
type Catalog struct {
	services []Service
	byID     map[string]int
}

// New builds a catalog preserving the given order. Duplicate ids keep the
// first occurrence for lookups.
func New(services []Service) *Catalog {
	c := &Catalog{
		services: make([]Service, len(services)),
		byID:     make(map[string]int, len(services)),
	}
	copy(c.services, services)
	for i, s := range c.services {
		if _, ok := c.byID[s.ID]; !ok {
			c.byID[s.ID] = i
		}
	}
	return c
}

// Default returns the clinic's standard catalog.
func Default() *Catalog {
	return New(clinicServices)
}

// All returns every service in catalog order.
func (c *Catalog) All() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// ByID looks up a service.
func (c *Catalog) ByID(id string) (Service, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Service{}, ErrServiceNotFound
	}
	return c.services[idx], nil
}

// ByCategory is a stable filter over All.
func (c *Catalog) ByCategory(category Category) []Service {
	out := make([]Service, 0, len(c.services))
	for _, s := range c.services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// First returns the entry a booking starts with when nothing was chosen.
func (c *Catalog) First() Service {
	if len(c.services) == 0 {
		return Service{}
	}
	return c.services[0]
}

// Resolve maps an optional pre-selected id to a service, falling back to
// First when the id is empty or not in the catalog.
func (c *Catalog) Resolve(id string) Service {
	if s, err := c.ByID(id); err == nil {
		return s
	}
	return c.First()
}

// Len reports the number of services.
func (c *Catalog) Len() int {
	return len(c.services)
}

var clinicServices = []Service{
	{
		ID:          "1",
		Title:       "Initial Neurological Consultation",
		Description: "Comprehensive assessment of neurological health with our specialist Dr. Sharma.",
		Price:       3500,
		Duration:    "60 minutes",
		Category:    CategoryNeurology,
	},
	{
		ID:          "2",
		Title:       "Follow-up Consultation",
		Description: "Review of progress, test results, and treatment adjustments.",
		Price:       2000,
		Duration:    "30 minutes",
		Category:    CategoryNeurology,
	},
	{
		ID:          "3",
		Title:       "Neurological Testing",
		Description: "Advanced diagnostic procedures to identify neurological conditions.",
		Price:       5000,
		Duration:    "90 minutes",
		Category:    CategoryNeurology,
	},
	{
		ID:          "4",
		Title:       "Personalized Treatment Plan",
		Description: "Custom-designed therapy and medication regimen based on your specific needs.",
		Price:       4500,
		Duration:    "60 minutes",
		Category:    CategoryNeurology,
	},
	{
		ID:          "5",
		Title:       "Birth Chart Analysis",
		Description: "Detailed analysis of your natal chart to understand your life path and tendencies.",
		Price:       2500,
		Duration:    "60 minutes",
		Category:    CategoryAstrology,
	},
	{
		ID:          "6",
		Title:       "Transit Forecast",
		Description: "Analysis of current planetary positions and their effects on your life.",
		Price:       2000,
		Duration:    "45 minutes",
		Category:    CategoryAstrology,
	},
	{
		ID:          "7",
		Title:       "Compatibility Analysis",
		Description: "Assessment of relationship dynamics through astrological comparison.",
		Price:       3000,
		Duration:    "75 minutes",
		Category:    CategoryAstrology,
	},
	{
		ID:          "8",
		Title:       "Career & Finance Reading",
		Description: "Astrological insights into your professional life and financial prospects.",
		Price:       3500,
		Duration:    "60 minutes",
		Category:    CategoryAstrology,
	},
}
