package order

import "strings"

// AddressParts are the optional sub-fields of a delivery address.
type AddressParts struct {
	Street     string `json:"address"`
	Locality   string `json:"location"`
	Landmark   string `json:"landmark"`
	District   string `json:"district"`
	State      string `json:"state"`
	PostalCode string `json:"pincode"`
}

// ComposeAddress joins the non-empty parts with ", ", labelling the landmark
// and postal code.
func ComposeAddress(p AddressParts) string {
	var parts []string
	add := func(prefix, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, prefix+value)
		}
	}

	add("", p.Street)
	add("", p.Locality)
	add("Landmark: ", p.Landmark)
	add("", p.District)
	add("", p.State)
	add("PIN ", p.PostalCode)

	return strings.Join(parts, ", ")
}
