package models

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is a reference to a stored receipt image.
type Receipt struct {
	URI string `json:"uri"`
}

// Item is a single expense line belonging to a claim.
type Item struct {
	Document

	claim       uuid.UUID
	amount      float64
	currency    string
	date        time.Time
	description string
	receipt     *Receipt
}

// NewItem constructs an expense item belonging to the given claim. The date
// defaults to the current time.
func NewItem(id, claim uuid.UUID) *Item {
	return &Item{
		Document: newDocument(id, KindItem),
		claim:    claim,
		date:     time.Now(),
	}
}

// SetName sets the item's display name.
func (i *Item) SetName(name string) {
	i.name = name
	i.notify(i)
}

// Claim returns the id of the claim this item belongs to.
func (i *Item) Claim() uuid.UUID { return i.claim }

// SetClaim sets the owning claim. Logically set at most once.
func (i *Item) SetClaim(claim uuid.UUID) {
	i.claim = claim
	i.notify(i)
}

// Amount returns the expense amount.
func (i *Item) Amount() float64 { return i.amount }

// SetAmount sets the expense amount.
func (i *Item) SetAmount(amount float64) {
	i.amount = amount
	i.notify(i)
}

// Currency returns the ISO 4217 currency code.
func (i *Item) Currency() string { return i.currency }

// SetCurrency sets the ISO 4217 currency code.
func (i *Item) SetCurrency(currency string) {
	i.currency = currency
	i.notify(i)
}

// Date returns the date the expense was incurred.
func (i *Item) Date() time.Time { return i.date }

// SetDate sets the date the expense was incurred.
func (i *Item) SetDate(t time.Time) {
	i.date = t
	i.notify(i)
}

// Description returns the expense description.
func (i *Item) Description() string { return i.description }

// SetDescription sets the expense description.
func (i *Item) SetDescription(description string) {
	i.description = description
	i.notify(i)
}

// Receipt returns the attached receipt reference, or nil.
func (i *Item) Receipt() *Receipt {
	if i.receipt == nil {
		return nil
	}
	r := *i.receipt
	return &r
}

// SetReceipt attaches a receipt reference; nil detaches it.
func (i *Item) SetReceipt(receipt *Receipt) {
	if receipt == nil {
		i.receipt = nil
	} else {
		r := *receipt
		i.receipt = &r
	}
	i.notify(i)
}
