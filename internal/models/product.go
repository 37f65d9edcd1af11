package models

// Product represents a tracksuit available in the catalog
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Image    string   `json:"image"`
	Price    float64  `json:"price"`
	Sizes    []string `json:"sizes"`
}

// HasSize reports whether size is offered for the product
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
