// Package cart implements the shopping cart as a pure state machine.
//
// A State is changed only through Reduce, which takes one of the closed set
// of actions (AddItem, RemoveItem, UpdateQuantity) and returns a new State
// without modifying its input.
package cart

import "github.com/polestar/storefront/internal/domain"

// Item is one cart line. Quantity is at least 1 while the item is in the cart.
type Item struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type State struct {
	Items []Item `json:"items"`
}

// Action is implemented only by the actions of this package.
type Action interface {
	isAction()
}

// AddItem adds one unit of Product, appending a new line if needed.
type AddItem struct {
	Product domain.Product
}

// RemoveItem drops the line for ProductID.
type RemoveItem struct {
	ProductID int64
}

// UpdateQuantity sets the quantity of the line for ProductID. A quantity
// below 1 removes the line.
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}

func (s State) index(productID int64) int {
	for i, it := range s.Items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Reduce applies action to state. Actions that do not apply (an unknown
// product id) return state itself.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		items := make([]Item, len(state.Items), len(state.Items)+1)
		copy(items, state.Items)
		if i := state.index(a.Product.ID); i >= 0 {
			items[i].Quantity++
			return State{Items: items}
		}
		return State{Items: append(items, Item{Product: a.Product, Quantity: 1})}

	case RemoveItem:
		i := state.index(a.ProductID)
		if i < 0 {
			return state
		}
		return State{Items: without(state.Items, i)}

	case UpdateQuantity:
		i := state.index(a.ProductID)
		if i < 0 {
			return state
		}
		if a.Quantity < 1 {
			return State{Items: without(state.Items, i)}
		}
		items := make([]Item, len(state.Items))
		copy(items, state.Items)
		items[i].Quantity = a.Quantity
		return State{Items: items}
	}
	return state
}

func without(items []Item, i int) []Item {
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// Count is the total number of units in the cart.
func (s State) Count() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums the effective price of every unit.
func (s State) Subtotal() int64 {
	var total int64
	for _, it := range s.Items {
		total += it.Product.EffectivePrice() * int64(it.Quantity)
	}
	return total
}
