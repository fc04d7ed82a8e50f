package orders

import (
	"net/url"
	"strings"
	"testing"

	"agribridge/models"
)

func TestBuildWhatsAppLink(t *testing.T) {
	order := &models.Order{
		OrderID:       "ORDabcdefghij",
		CustomerName:  "Ama Mensah",
		CustomerPhone: "+233501234567",
		TotalAmount:   45,
	}
	items := []models.OrderItem{
		{Name: "Tomatoes", FarmerName: "Kwame", Unit: "basket", Quantity: 2, Price: 10},
		{Name: "Yams", Quantity: 1, Price: 25},
	}

	link := BuildWhatsAppLink("+233500000000", order, items)

	if !strings.HasPrefix(link, "https://wa.me/+233500000000?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	text := u.Query().Get("text")

	for _, want := range []string{
		"*New Order from Golden Acres!*",
		"*Order ID:* ORDabcde", // short id, first 8 chars
		"*Customer:* Ama Mensah",
		"*Tomatoes*",
		"_From Farmer_: Kwame",
		"_Quantity_: 2 basket(s)",
		"_Subtotal_: GHS 20.00",
		"_From Farmer_: Golden Acres Farm", // fallback attribution
		"_Quantity_: 1 item(s)",            // fallback unit
		"*Total Amount: GHS 45.00*",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q\nfull text:\n%s", want, text)
		}
	}

	if strings.Contains(text, "ORDabcdefghij") {
		t.Error("summary must use the shortened order id")
	}
}
