package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	paypal "github.com/adobaai/paypal-express"
)

var (
	// "Hauptstrasse 12a", "Rue de la Paix 4 bis"
	trailingNumber = regexp.MustCompile(`(.*\S)\s+(\d+\s*\S*)$`)
	// "12 Hauptstrasse", "221B Baker Street"
	leadingNumber = regexp.MustCompile(`(\d+\S*)\s+(.*)$`)
)

// SplitStreet splits an address line into street and house number.
// A line without a recognizable number is returned as street.
func SplitStreet(line string) (street, number string) {
	line = strings.TrimSpace(line)
	if m := trailingNumber.FindStringSubmatch(line); m != nil && m[1] != "" && m[2] != "" {
		return m[1], m[2]
	}
	if m := leadingNumber.FindStringSubmatch(line); m != nil && m[1] != "" && m[2] != "" {
		return m[2], m[1]
	}
	return line, ""
}

// SplitName splits a full name at spaces, the last token is the family name
// and the others are joined without separator to the given name.
func SplitName(full string) (given, family string) {
	parts := strings.Split(full, " ")
	family = parts[len(parts)-1]
	return strings.Join(parts[:len(parts)-1], ""), family
}

// ParseAddress converts the PayPal shipping of an order into shop address fields.
// An unknown country leaves CountryID empty.
func ParseAddress(ctx context.Context, countries Countries, sh *paypal.Shipping) (res AddressFields, err error) {
	if sh == nil {
		return
	}
	if sh.Name != nil {
		res.FirstName, res.LastName = SplitName(sh.Name.FullName)
	}
	a := sh.Address
	if a == nil {
		return
	}
	res.Street, res.StreetNr = SplitStreet(a.AddressLine1)
	res.AddInfo = a.AddressLine2
	res.City = a.AdminArea2
	res.Zip = a.PostalCode

	if res.CountryID, err = countries.CountryID(ctx, a.CountryCode); err != nil {
		return res, fmt.Errorf("country id: %w", err)
	}
	if a.AdminArea1 != "" {
		if res.StateID, err = countries.StateID(ctx, a.AdminArea1, res.CountryID); err != nil {
			return res, fmt.Errorf("state id: %w", err)
		}
	}
	return
}

// SameAddress reports whether street, number and city are equal.
func (f *AddressFields) SameAddress(o *AddressFields) bool {
	return f.Street == o.Street && f.StreetNr == o.StreetNr && f.City == o.City
}

// SameName reports whether the full names are equal.
func (f *AddressFields) SameName(o *AddressFields) bool {
	return f.FirstName+" "+f.LastName == o.FirstName+" "+o.LastName
}
