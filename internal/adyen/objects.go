// Package adyen builds and validates Adyen checkout API payloads, sends
// them over HTTP, and types the provider's responses and webhook
// notifications.
package adyen

import "fmt"

func exactLength(field, value string, n int) error {
	if len(value) != n {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be exactly %d characters, got %q", n, value),
		}
	}
	return nil
}

func maxLength(field, value string, n int) error {
	if len(value) > n {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be at most %d characters", n),
		}
	}
	return nil
}

// Amount is a money value in minor units with a 3-letter ISO currency code.
// Immutable once constructed.
type Amount struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

func NewAmount(currency string, value int64) (*Amount, error) {
	if err := exactLength("currency", currency, 3); err != nil {
		return nil, err
	}
	return &Amount{Currency: currency, Value: value}, nil
}

// ParseAmount types the `amount` object of an inbound provider body.
func ParseAmount(o Object) (*Amount, error) {
	currency, ok := o.String("currency")
	if !ok {
		return nil, &ValidationError{Field: "currency", Reason: "missing"}
	}
	value, ok := o.Int64("value")
	if !ok {
		return nil, &ValidationError{Field: "value", Reason: "missing"}
	}
	return NewAmount(currency, value)
}

// Address is a postal address. Only the 2-letter country code is required;
// empty optional fields are left out of the JSON entirely.
type Address struct {
	City              string `json:"city,omitempty"`
	Country           string `json:"country"`
	HouseNumberOrName string `json:"houseNumberOrName,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	StateOrProvince   string `json:"stateOrProvince,omitempty"`
	Street            string `json:"street,omitempty"`
}

func NewAddress(country string) (*Address, error) {
	if err := exactLength("country", country, 2); err != nil {
		return nil, err
	}
	return &Address{Country: country}, nil
}

// Name is a shopper name.
type Name struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Line item categories accepted by the provider.
const (
	ItemCategoryPhysical = "PHYSICAL"
	ItemCategoryDigital  = "DIGITAL"
)

// LineItem is one order line. Owned exclusively by a LineItems collection.
type LineItem struct {
	ID                 string `json:"id,omitempty"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	AmountIncludingTax int64  `json:"amountIncludingTax"`
	TaxAmount          int64  `json:"taxAmount,omitempty"`
	Quantity           int    `json:"quantity"`
	ItemCategory       string `json:"itemCategory,omitempty"`
	VATCategory        *int   `json:"vatCategory,omitempty"`
}

func NewLineItem(name string, quantity int, amountIncludingTax int64) (*LineItem, error) {
	if err := maxLength("name", name, 50); err != nil {
		return nil, err
	}
	return &LineItem{
		Name:               name,
		Quantity:           quantity,
		AmountIncludingTax: amountIncludingTax,
	}, nil
}

func (li *LineItem) SetDescription(description string) error {
	if err := maxLength("description", description, 100); err != nil {
		return err
	}
	li.Description = description
	return nil
}

func (li *LineItem) SetItemCategory(category string) error {
	if err := maxLength("itemCategory", category, 8); err != nil {
		return err
	}
	if category != ItemCategoryPhysical && category != ItemCategoryDigital {
		return &ValidationError{
			Field:  "itemCategory",
			Reason: fmt.Sprintf("must be %s or %s", ItemCategoryPhysical, ItemCategoryDigital),
		}
	}
	li.ItemCategory = category
	return nil
}

// LineItems is the ordered collection of line items owned by a payment
// request.
type LineItems struct {
	items []*LineItem
}

func NewLineItems() *LineItems {
	return &LineItems{}
}

// NewItem creates a line item, appends it, and returns it for further
// decoration.
func (l *LineItems) NewItem(name string, quantity int, amountIncludingTax int64) (*LineItem, error) {
	item, err := NewLineItem(name, quantity, amountIncludingTax)
	if err != nil {
		return nil, err
	}
	l.items = append(l.items, item)
	return item, nil
}

func (l *LineItems) Items() []*LineItem {
	return l.items
}

func (l *LineItems) Len() int {
	return len(l.items)
}
