package catalog

import "github.com/shopspring/decimal"

// SelectionMode declares how many options may be picked from a group.
type SelectionMode string

const (
	SelectionSingle SelectionMode = "single"
	SelectionMulti  SelectionMode = "multi"
)

// Product is one sellable item of the active business. Immutable within a
// snapshot.
type Product struct {
	ID         string          `json:"id"`
	BusinessID string          `json:"business_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Available  bool            `json:"available"`
}

// Option is a selectable modifier with a price delta.
type Option struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Available  bool            `json:"available"`
}

// OptionGroup owns an ordered set of options and is attached to zero or more
// products. Cardinality is data here; the cart composer enforces it.
type OptionGroup struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Mode       SelectionMode `json:"mode"`
	Options    []Option      `json:"options"`
	ProductIDs []string      `json:"product_ids"`
}

// Snapshot is an immutable-per-fetch view of a business's catalog. Lookup
// maps are built once at construction and never mutated afterwards.
type Snapshot struct {
	businessID      string
	products        map[string]Product
	groups          map[string]OptionGroup
	options         map[string]Option
	groupsByProduct map[string][]string
	groupByOption   map[string]string
}

// Payload is the raw catalog shape delivered by the backend.
type Payload struct {
	BusinessID string        `json:"business_id"`
	Products   []Product     `json:"products"`
	Groups     []OptionGroup `json:"option_groups"`
}

// NewSnapshot indexes a backend catalog payload.
func NewSnapshot(payload Payload) *Snapshot {
	snap := &Snapshot{
		businessID:      payload.BusinessID,
		products:        make(map[string]Product, len(payload.Products)),
		groups:          make(map[string]OptionGroup, len(payload.Groups)),
		options:         make(map[string]Option),
		groupsByProduct: make(map[string][]string),
		groupByOption:   make(map[string]string),
	}
	for _, product := range payload.Products {
		snap.products[product.ID] = product
	}
	for _, group := range payload.Groups {
		snap.groups[group.ID] = group
		for _, option := range group.Options {
			snap.options[option.ID] = option
			snap.groupByOption[option.ID] = group.ID
		}
		for _, productID := range group.ProductIDs {
			snap.groupsByProduct[productID] = append(snap.groupsByProduct[productID], group.ID)
		}
	}
	return snap
}

// BusinessID returns the owning business of this snapshot.
func (s *Snapshot) BusinessID() string {
	return s.businessID
}

// Product looks up a product by id.
func (s *Snapshot) Product(id string) (Product, bool) {
	product, ok := s.products[id]
	return product, ok
}

// Option looks up an option by id.
func (s *Snapshot) Option(id string) (Option, bool) {
	option, ok := s.options[id]
	return option, ok
}

// GroupsFor returns the option groups attached to a product, in catalog order.
func (s *Snapshot) GroupsFor(productID string) []OptionGroup {
	ids := s.groupsByProduct[productID]
	groups := make([]OptionGroup, 0, len(ids))
	for _, id := range ids {
		if group, ok := s.groups[id]; ok {
			groups = append(groups, group)
		}
	}
	return groups
}

// GroupForOption resolves the owning group of an option id.
func (s *Snapshot) GroupForOption(optionID string) (OptionGroup, bool) {
	groupID, ok := s.groupByOption[optionID]
	if !ok {
		return OptionGroup{}, false
	}
	group, ok := s.groups[groupID]
	return group, ok
}

// OptionAllowed reports whether the option belongs to a group attached to the
// product.
func (s *Snapshot) OptionAllowed(productID, optionID string) bool {
	groupID, ok := s.groupByOption[optionID]
	if !ok {
		return false
	}
	for _, candidate := range s.groupsByProduct[productID] {
		if candidate == groupID {
			return true
		}
	}
	return false
}
