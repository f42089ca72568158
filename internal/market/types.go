// Package market holds the immutable snapshot and discount stores and the
// as-of resolution logic shared by every query component.
package market

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates at every boundary.
const DateLayout = "2006-01-02"

// Date is a calendar date without time-of-day.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MustDate parses a YYYY-MM-DD string and panics on failure. Test helper.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current calendar date in UTC.
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON parses a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ProductSnapshot is one product record from a store's dated catalog
// publication. Identifiers are store-scoped; the same physical good may carry
// different IDs at different stores and is matched across stores by name.
type ProductSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Quantity    float64 `json:"quantity"` // package quantity, > 0
	Unit        string  `json:"unit"`
	Price       float64 `json:"price"` // non-negative, validated at the loader
	Currency    string  `json:"currency"`
	PublishedAt Date    `json:"publishedAt"` // catalog publication date
}

// DiscountInterval is a percentage discount valid over an inclusive date
// window for one product at one store. Name/brand are denormalized so the
// interval can be displayed without a catalog join.
type DiscountInterval struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	FromDate    Date   `json:"fromDate"`
	ToDate      Date   `json:"toDate"` // inclusive; FromDate <= ToDate
	Percent     int    `json:"percent"`
	PublishedAt Date   `json:"publishedAt"` // discount schedule publication date
}

// ActiveOn reports whether the window contains date. Both ends are inclusive,
// so a window with FromDate == ToDate is active exactly on that day.
func (d DiscountInterval) ActiveOn(date Date) bool {
	return !date.Before(d.FromDate.Time) && !date.After(d.ToDate.Time)
}

// DiscountedPrice applies a percentage discount to a list price.
func DiscountedPrice(listPrice float64, percent int) float64 {
	return listPrice * (1 - float64(percent)/100)
}

// PricePoint is one (date, price) observation for a product at a store,
// arising from either a catalog snapshot or a discount boundary.
type PricePoint struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Store     string  `json:"store"`
	Date      Date    `json:"date"`
}
