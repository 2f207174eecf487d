// model/item.go
package model

import "fmt"

type Category string

const (
	CategoryBook   Category = "BOOK"
	CategoryMovie  Category = "MOVIE"
	CategoryDevice Category = "DEVICE"
)

var validCategories = map[Category]bool{
	CategoryBook:   true,
	CategoryMovie:  true,
	CategoryDevice: true,
}

func IsValidCategory(c Category) bool { return validCategories[c] }

// Item carries the availability counters that every lifecycle operation
// moves in lockstep. available + on_hold + loaned_out equals the number
// of units the library owns for this item.
type Item struct {
	ID        int64    `json:"id"`
	Category  Category `json:"category"`
	Available int64    `json:"available"`
	OnHold    int64    `json:"on_hold"`
	LoanedOut int64    `json:"loaned_out"`

	// Exactly one of these is set, matching Category.
	Book   *BookMeta   `json:"book,omitempty"`
	Movie  *MovieMeta  `json:"movie,omitempty"`
	Device *DeviceMeta `json:"device,omitempty"`
}

type BookMeta struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type MovieMeta struct {
	Title    string `json:"title"`
	Director string `json:"director"`
	Year     int    `json:"year"`
}

type DeviceMeta struct {
	Title        string `json:"title"`
	Manufacturer string `json:"manufacturer"`
	Serial       string `json:"serial"`
}

// Title resolves the display title across the three item variants.
func (i Item) Title() string {
	switch {
	case i.Book != nil:
		return i.Book.Title
	case i.Movie != nil:
		return i.Movie.Title
	case i.Device != nil:
		return i.Device.Title
	}
	return ""
}

// TotalOwned is the fixed quantity the counters must always sum to.
func (i Item) TotalOwned() int64 { return i.Available + i.OnHold + i.LoanedOut }

// CheckCounters reports a violation of the counter invariant.
func (i Item) CheckCounters(owned int64) error {
	if i.Available < 0 || i.OnHold < 0 || i.LoanedOut < 0 {
		return fmt.Errorf("item %d: negative counter (available=%d on_hold=%d loaned_out=%d)",
			i.ID, i.Available, i.OnHold, i.LoanedOut)
	}
	if sum := i.Available + i.OnHold + i.LoanedOut; sum != owned {
		return fmt.Errorf("item %d: counters sum to %d, owns %d", i.ID, sum, owned)
	}
	return nil
}
