package orders

import (
	"encoding/json"
	"errors"
	"testing"

	"agribridge/models"
)

func hubTable(hubs map[string]*models.PickupHub) HubLookup {
	return func(hubID string) (*models.PickupHub, error) {
		if h, ok := hubs[hubID]; ok {
			return h, nil
		}
		return nil, errors.New("not found")
	}
}

func TestParseDeliveryInfo(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want *models.DeliveryInfo
	}{
		{"empty", "", nil},
		{"null", "null", nil},
		{"object", `{"method":"Delivery","address":"12 Ring Road"}`,
			&models.DeliveryInfo{Method: "Delivery", Address: "12 Ring Road"}},
		{"pickup object", `{"method":"Pickup","hub_id":"hubkaneshie"}`,
			&models.DeliveryInfo{Method: "Pickup", HubID: "hubkaneshie"}},
		{"doubly encoded", `"{\"method\":\"Pickup\",\"hub_id\":\"hubkaneshie\"}"`,
			&models.DeliveryInfo{Method: "Pickup", HubID: "hubkaneshie"}},
		{"bare string", `"12 Ring Road, Accra"`,
			&models.DeliveryInfo{Address: "12 Ring Road, Accra"}},
		{"blank string", `"  "`, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseDeliveryInfo(json.RawMessage(c.raw))
			if c.want == nil {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("got nil, want %+v", c.want)
			}
			if *got != *c.want {
				t.Errorf("got %+v, want %+v", *got, *c.want)
			}
		})
	}
}

func TestResolveDeliveryDisplay(t *testing.T) {
	hubs := hubTable(map[string]*models.PickupHub{
		"hubkaneshie": {HubID: "hubkaneshie", Name: "Kaneshie Hub", Area: "Kaneshie", Region: "Greater Accra"},
	})

	cases := []struct {
		name string
		info *models.DeliveryInfo
		want models.DeliveryDisplay
	}{
		{
			"nil info",
			nil,
			models.DeliveryDisplay{Type: "Unknown", Icon: "home", Label: "No Info"},
		},
		{
			"home delivery",
			&models.DeliveryInfo{Method: models.MethodDelivery, Address: "12 Ring Road"},
			models.DeliveryDisplay{Type: "Home Delivery", Icon: "home", Label: "12 Ring Road", SubLabel: "Home Delivery"},
		},
		{
			"home delivery without address",
			&models.DeliveryInfo{Method: models.MethodDelivery},
			models.DeliveryDisplay{Type: "Home Delivery", Icon: "home", Label: "No Address Provided", SubLabel: "Home Delivery"},
		},
		{
			"pickup with resolvable hub",
			&models.DeliveryInfo{Method: models.MethodPickup, HubID: "hubkaneshie"},
			models.DeliveryDisplay{Type: "Pickup", Icon: "warehouse", Label: "Kaneshie Hub (Kaneshie)", SubLabel: "Greater Accra"},
		},
		{
			"pickup with deleted hub",
			&models.DeliveryInfo{Method: models.MethodPickup, HubID: "hubgone"},
			models.DeliveryDisplay{Type: "Pickup", Icon: "warehouse", Label: "Unknown Hub", SubLabel: "Pickup Center"},
		},
		{
			"pickup legacy embedded hub fields",
			&models.DeliveryInfo{Method: models.MethodPickup, HubName: "Old Market Hub", HubArea: "Tamale Central"},
			models.DeliveryDisplay{Type: "Pickup", Icon: "warehouse", Label: "Old Market Hub (Tamale Central)", SubLabel: "Pickup Center"},
		},
		{
			"pickup with nothing at all",
			&models.DeliveryInfo{Method: models.MethodPickup},
			models.DeliveryDisplay{Type: "Pickup", Icon: "warehouse", Label: "Unknown Hub", SubLabel: "Pickup Center"},
		},
		{
			"unknown method keeps address",
			&models.DeliveryInfo{Method: "Courier", Address: "somewhere"},
			models.DeliveryDisplay{Type: "Unknown", Icon: "home", Label: "somewhere"},
		},
		{
			"unknown method without address",
			&models.DeliveryInfo{Method: "Courier"},
			models.DeliveryDisplay{Type: "Unknown", Icon: "home", Label: "No Info"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ResolveDeliveryDisplay(c.info, hubs)
			if got != c.want {
				t.Errorf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestResolveDeliveryDisplayNilLookup(t *testing.T) {
	// a nil lookup must not panic; pickup degrades to the generic label
	got := ResolveDeliveryDisplay(&models.DeliveryInfo{Method: models.MethodPickup, HubID: "hubkaneshie"}, nil)
	if got.Label != "Unknown Hub" {
		t.Errorf("got label %q, want %q", got.Label, "Unknown Hub")
	}
}
