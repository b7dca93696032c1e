package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Item is a product master record (cm, kg).
type Item struct {
	ID        string  `json:"id"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Stackable bool    `json:"stackable"`
}

func NewItem(id string, l, w, h, weight float64) Item {
	return Item{ID: id, Length: l, Width: w, Height: h, Weight: weight, Stackable: true}
}

// UnmarshalJSON decodes an item; a missing stackable field means true.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	p := plain{Stackable: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// Volume returns the item volume in cubic centimeters.
func (it Item) Volume() float64 {
	return it.Length * it.Width * it.Height
}

// Box is a packaging carton that can hold several items.
type Box struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	TareWeight float64 `json:"tare_weight"`
}

func NewBox(name string, l, w, h, tare float64) Box {
	return Box{ID: uuid.New().String()[:8], Name: name, Length: l, Width: w, Height: h, TareWeight: tare}
}

// Pallet is a load carrier; items are built up to MaxHeight.
type Pallet struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	MaxHeight  float64 `json:"max_height"`
	TareWeight float64 `json:"tare_weight"`
	Stackable  bool    `json:"stackable"`
}

func NewPallet(name string, l, w, maxH, tare float64) Pallet {
	return Pallet{ID: uuid.New().String()[:8], Name: name, Length: l, Width: w, MaxHeight: maxH, TareWeight: tare, Stackable: true}
}

// UnmarshalJSON decodes a pallet; a missing stackable field means true.
func (pl *Pallet) UnmarshalJSON(data []byte) error {
	type plain Pallet
	p := plain{Stackable: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*pl = Pallet(p)
	return nil
}

// Order is a single order line: a quantity of one item.
type Order struct {
	ID       string  `json:"id"` // Line identifier
	OrderID  string  `json:"order_id"`
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"` // May be fractional in source data; floored on expansion
}

func NewOrder(orderID, itemID string, qty float64) Order {
	return Order{ID: uuid.New().String()[:8], OrderID: orderID, ItemID: itemID, Quantity: qty}
}

// Dataset is the tabular planning input: items, packaging and orders.
type Dataset struct {
	Items   []Item   `json:"items"`
	Boxes   []Box    `json:"boxes"`
	Pallets []Pallet `json:"pallets"`
	Orders  []Order  `json:"orders"`
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Items:   append([]Item(nil), d.Items...),
		Boxes:   append([]Box(nil), d.Boxes...),
		Pallets: append([]Pallet(nil), d.Pallets...),
		Orders:  append([]Order(nil), d.Orders...),
	}
}

// FindItem returns a pointer to the first item with the given ID, or nil.
func (d *Dataset) FindItem(id string) *Item {
	id = strings.TrimSpace(id)
	for i := range d.Items {
		if strings.TrimSpace(d.Items[i].ID) == id {
			return &d.Items[i]
		}
	}
	return nil
}

// OrderLine is an order joined with its item and whole-unit count.
type OrderLine struct {
	Order Order
	Item  Item
	Count int
}

// OrderLines joins orders with items. Lines with an unknown item, a
// quantity below one whole unit, or an item without usable dimensions
// are returned as skipped records.
func (d Dataset) OrderLines() ([]OrderLine, []SkippedUnit) {
	items := make(map[string]Item, len(d.Items))
	for _, it := range d.Items {
		key := strings.TrimSpace(it.ID)
		if _, dup := items[key]; !dup {
			items[key] = it
		}
	}

	var lines []OrderLine
	var skipped []SkippedUnit
	for i, o := range d.Orders {
		ref := lineRef(o, i)
		item, ok := items[strings.TrimSpace(o.ItemID)]
		if !ok {
			skipped = append(skipped, SkippedUnit{ID: ref, Reason: fmt.Sprintf("unknown item %q", o.ItemID)})
			continue
		}
		if math.IsNaN(o.Quantity) || math.IsInf(o.Quantity, 0) {
			skipped = append(skipped, SkippedUnit{ID: ref, Reason: "quantity is not a number"})
			continue
		}
		count := int(math.Floor(o.Quantity))
		if count <= 0 {
			skipped = append(skipped, SkippedUnit{ID: ref, Reason: fmt.Sprintf("quantity %g yields no whole units", o.Quantity)})
			continue
		}
		if err := itemUnit(item, ref).Validate(); err != nil {
			skipped = append(skipped, SkippedUnit{ID: ref, Reason: err.Error()})
			continue
		}
		lines = append(lines, OrderLine{Order: o, Item: item, Count: count})
	}
	return lines, skipped
}

// ExpandOrders joins orders with items and expands each line by quantity
// into one Unit per whole count, in order-line order.
func (d Dataset) ExpandOrders() ([]Unit, []SkippedUnit) {
	lines, skipped := d.OrderLines()
	var units []Unit
	for _, l := range lines {
		units = append(units, l.Units()...)
	}
	return units, skipped
}

// Units expands the line into one Unit per whole count.
func (l OrderLine) Units() []Unit {
	units := make([]Unit, 0, l.Count)
	for i := 0; i < l.Count; i++ {
		id := fmt.Sprintf("%s-%s-%d", strings.TrimSpace(l.Order.OrderID), strings.TrimSpace(l.Item.ID), i+1)
		units = append(units, itemUnit(l.Item, id))
	}
	return units
}

func itemUnit(it Item, id string) Unit {
	return Unit{
		ID:        id,
		Label:     it.ID,
		Length:    it.Length,
		Width:     it.Width,
		Height:    it.Height,
		Weight:    it.Weight,
		Stackable: it.Stackable,
	}
}

func lineRef(o Order, idx int) string {
	orderID := strings.TrimSpace(o.OrderID)
	if orderID == "" {
		orderID = fmt.Sprintf("line %d", idx+1)
	}
	return fmt.Sprintf("%s/%s", orderID, strings.TrimSpace(o.ItemID))
}
