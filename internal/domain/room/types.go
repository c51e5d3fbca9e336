package room

import (
	"math"
	"strings"
	"unicode/utf8"
)

type State string

const (
	StateAvailable   State = "available"
	StateBooked      State = "booked"
	StateMaintenance State = "maintenance"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateAvailable, StateBooked, StateMaintenance:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategorySingle Category = "Single"
	CategoryDouble Category = "Double"
	CategoryTwin   Category = "Twin"
	CategorySuite  Category = "Suite"
	CategoryFamily Category = "Family"
)

var Categories = []Category{CategorySingle, CategoryDouble, CategoryTwin, CategorySuite, CategoryFamily}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategorySingle, CategoryDouble, CategoryTwin, CategorySuite, CategoryFamily:
		return true
	default:
		return false
	}
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

const MaxNumberLength = 20

type Number struct {
	value string
}

func NewNumber(s string) (Number, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Number{}, ErrEmptyNumber
	}
	if utf8.RuneCountInString(t) > MaxNumberLength {
		return Number{}, ErrNumberTooLong
	}
	return Number{value: t}, nil
}

func (n Number) String() string { return n.value }

const maxPriceCents = 1e13

// Price is a non-negative amount held in cents.
type Price struct {
	cents int64
}

func NewPriceFromCents(cents int64) (Price, error) {
	if cents < 0 {
		return Price{}, ErrNegativePrice
	}
	if cents > maxPriceCents {
		return Price{}, ErrPriceOutOfRange
	}
	return Price{cents: cents}, nil
}

// NewPrice rounds amount to two decimals.
func NewPrice(amount float64) (Price, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Price{}, ErrPriceOutOfRange
	}
	if amount < 0 {
		return Price{}, ErrNegativePrice
	}
	cents := math.Round(amount * 100)
	if cents > maxPriceCents {
		return Price{}, ErrPriceOutOfRange
	}
	return Price{cents: int64(cents)}, nil
}

func (p Price) Cents() int64 { return p.cents }

func (p Price) Amount() float64 {
	return float64(p.cents) / 100.0
}
