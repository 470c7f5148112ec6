package cart

import (
	"sync"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/catalog"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SelectedOption is an option choice denormalized for display.
type SelectedOption struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// Item is an ephemeral, client-only cart line. Its id is locally generated
// and never doubles as a backend order-item id.
type Item struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Quantity  int              `json:"quantity"`
	Options   []SelectedOption `json:"options"`
	// Total is recomputed on every quantity or selection change, never left
	// stale. The order mapper sets it verbatim from historical order data.
	Total decimal.Decimal `json:"total"`
}

func (i Item) computedTotal() decimal.Decimal {
	price := i.UnitPrice
	for _, option := range i.Options {
		price = price.Add(option.PriceDelta)
	}
	return price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Group is an ordered, named batch of items (a course or send-batch).
// Sequence order is significant for kitchen display.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Composer builds priced cart lines from catalog selections. All side
// effects stay in memory; nothing persists until an explicit submit.
type Composer struct {
	mu       sync.Mutex
	snapshot *catalog.Snapshot
	groups   []Group
}

// NewComposer creates an empty cart over the given catalog snapshot.
func NewComposer(snapshot *catalog.Snapshot) *Composer {
	return &Composer{snapshot: snapshot}
}

// SetSnapshot swaps the catalog snapshot and clears the cart. Called on
// business switch; a cart composed against another business's catalog is
// meaningless.
func (c *Composer) SetSnapshot(snapshot *catalog.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	c.groups = nil
}

// AddGroup appends a named group and returns it.
func (c *Composer) AddGroup(name string) Group {
	c.mu.Lock()
	defer c.mu.Unlock()

	group := Group{ID: uuid.NewString(), Name: name}
	c.groups = append(c.groups, group)
	return group
}

// RemoveGroup deletes a group and its items. Unknown ids are a no-op.
func (c *Composer) RemoveGroup(groupID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for pos, group := range c.groups {
		if group.ID == groupID {
			c.groups = append(c.groups[:pos], c.groups[pos+1:]...)
			return
		}
	}
}

// AddItem validates the selection against the catalog and appends a priced
// item to the group. An empty group id lazily creates an unnamed group.
func (c *Composer) AddItem(groupID, productID string, quantity int, optionIDs []string) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 1 {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if c.snapshot == nil {
		return Item{}, pkgerrors.New(pkgerrors.CodeDependency, "catalog snapshot not loaded")
	}

	product, ok := c.snapshot.Product(productID)
	if !ok {
		return Item{}, pkgerrors.New(pkgerrors.CodeInvalidSelection, "product not in catalog")
	}
	if !product.Available {
		return Item{}, pkgerrors.New(pkgerrors.CodeInvalidSelection, "product is unavailable")
	}

	selected, err := c.resolveOptionsLocked(productID, optionIDs)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
		Options:   selected,
	}
	item.Total = item.computedTotal()

	group := c.groupLocked(groupID)
	if group == nil {
		if groupID != "" {
			return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart group not found")
		}
		c.groups = append(c.groups, Group{ID: uuid.NewString()})
		group = &c.groups[len(c.groups)-1]
	}
	group.Items = append(group.Items, item)
	return item, nil
}

// UpdateQuantity recomputes an item's total for the new quantity. A quantity
// of zero or less removes the item entirely. Unknown items are a no-op;
// concurrent UI actions make "already gone" a normal outcome.
func (c *Composer) UpdateQuantity(groupID, itemID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	group := c.groupLocked(groupID)
	if group == nil {
		return
	}
	for pos := range group.Items {
		if group.Items[pos].ID != itemID {
			continue
		}
		if quantity <= 0 {
			group.Items = append(group.Items[:pos], group.Items[pos+1:]...)
			return
		}
		group.Items[pos].Quantity = quantity
		group.Items[pos].Total = group.Items[pos].computedTotal()
		return
	}
}

// RemoveItem deletes an item. Idempotent; removing a missing item is silent.
func (c *Composer) RemoveItem(groupID, itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	group := c.groupLocked(groupID)
	if group == nil {
		return
	}
	for pos := range group.Items {
		if group.Items[pos].ID == itemID {
			group.Items = append(group.Items[:pos], group.Items[pos+1:]...)
			return
		}
	}
}

// Groups returns a deep copy of the composed groups in order.
func (c *Composer) Groups() []Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyGroups(c.groups)
}

// Total recomputes the aggregate cart price from current contents.
func (c *Composer) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, group := range c.groups {
		for _, item := range group.Items {
			total = total.Add(item.Total)
		}
	}
	return total
}

// Clear empties the cart. Called after submit and on business switch.
func (c *Composer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = nil
}

// Load replaces the cart contents with pre-built groups, keeping the current
// snapshot. Used when projecting an existing order back into the cart.
func (c *Composer) Load(groups []Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = copyGroups(groups)
}

func (c *Composer) groupLocked(groupID string) *Group {
	for pos := range c.groups {
		if c.groups[pos].ID == groupID {
			return &c.groups[pos]
		}
	}
	return nil
}

func (c *Composer) resolveOptionsLocked(productID string, optionIDs []string) ([]SelectedOption, error) {
	selected := make([]SelectedOption, 0, len(optionIDs))
	perGroup := map[string]int{}
	for _, optionID := range optionIDs {
		if !c.snapshot.OptionAllowed(productID, optionID) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection, "option not attached to product")
		}
		option, ok := c.snapshot.Option(optionID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection, "option not in catalog")
		}
		if !option.Available {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection, "option is unavailable")
		}
		group, ok := c.snapshot.GroupForOption(optionID)
		if ok {
			perGroup[group.ID]++
			if group.Mode == catalog.SelectionSingle && perGroup[group.ID] > 1 {
				return nil, pkgerrors.New(pkgerrors.CodeInvalidSelection, "group allows a single option")
			}
		}
		selected = append(selected, SelectedOption{
			ID:         option.ID,
			Name:       option.Name,
			PriceDelta: option.PriceDelta,
		})
	}
	return selected, nil
}

func copyGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for pos, group := range groups {
		copied := group
		copied.Items = make([]Item, len(group.Items))
		copy(copied.Items, group.Items)
		out[pos] = copied
	}
	return out
}
