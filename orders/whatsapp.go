package orders

import (
	"fmt"
	"net/url"
	"strings"

	"agribridge/models"
)

// BuildWhatsAppLink assembles the checkout handoff deep link: a wa.me URL with
// a prefilled, human-readable order summary. This is the confirmation channel
// in lieu of a payment gateway; opening it is the client's job and failures
// there never roll the order back.
func BuildWhatsAppLink(phoneNumber string, order *models.Order, items []models.OrderItem) string {
	var b strings.Builder

	shortID := order.OrderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	fmt.Fprintf(&b, "*New Order from Golden Acres!*\n\n")
	fmt.Fprintf(&b, "*Order ID:* %s\n", shortID)
	fmt.Fprintf(&b, "*Customer:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "*Phone:* %s\n\n", order.CustomerPhone)
	b.WriteString("I'd like to place an order for the following items:\n\n")

	for _, it := range items {
		unit := it.Unit
		if unit == "" {
			unit = "item"
		}
		farmer := it.FarmerName
		if farmer == "" {
			farmer = "Golden Acres Farm"
		}
		fmt.Fprintf(&b, "*%s*\n", it.Name)
		fmt.Fprintf(&b, "_From Farmer_: %s\n", farmer)
		fmt.Fprintf(&b, "_Quantity_: %d %s(s)\n", it.Quantity, unit)
		fmt.Fprintf(&b, "_Subtotal_: GHS %.2f\n\n", it.Price*float64(it.Quantity))
	}

	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "*Total Amount: GHS %.2f*\n\n", order.TotalAmount)
	b.WriteString("Thank you!")

	return "https://wa.me/" + phoneNumber + "?text=" + url.QueryEscape(b.String())
}
