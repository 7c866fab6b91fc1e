package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"kartikrathi/smartprice/pkg/errors"
)

// numberRun matches one numeric run: digits with optional Indian-style
// comma grouping and an optional decimal part.
var numberRun = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsedPrice is the result of normalizing a raw price string
type ParsedPrice struct {
	// Price is the current selling price
	Price float64
	// MRP is the list price when the raw string carried a second run
	// concatenated after the selling price, 0 otherwise
	MRP float64
}

// HasMRP reports whether a second concatenated price run was found
func (p ParsedPrice) HasMRP() bool {
	return p.MRP > 0
}

// ParsePrice normalizes a raw, currency-formatted price string such as
// "₹60,300" or "₹1,35,900.00" into a numeric amount. Listing pages
// sometimes concatenate the sale price and the MRP with no separator
// ("₹61490₹69900"); the first run is the current price, the second is
// kept as MRP. Returns a price_parse error when no numeric run is
// found; callers skip the listing rather than abort the batch.
func ParsePrice(raw string) (ParsedPrice, error) {
	runs := numberRun.FindAllString(raw, 2)
	if len(runs) == 0 {
		return ParsedPrice{}, errors.NewPriceParse("price", "no numeric run in "+strconv.Quote(raw))
	}

	price, err := parseRun(runs[0])
	if err != nil {
		return ParsedPrice{}, errors.NewPriceParse("price", "bad numeric run in "+strconv.Quote(raw))
	}

	parsed := ParsedPrice{Price: price}
	if len(runs) > 1 {
		// Second run is the MRP. A sanity check: an MRP below the
		// selling price is a grouping artifact, not a list price.
		if mrp, err := parseRun(runs[1]); err == nil && mrp >= price {
			parsed.MRP = mrp
		}
	}

	return parsed, nil
}

func parseRun(run string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(run, ",", ""), 64)
}
