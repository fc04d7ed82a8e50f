package orders

import (
	"encoding/json"
	"strings"

	"agribridge/models"
)

// HubLookup resolves a pickup hub by id. A nil hub with nil error means the
// hub no longer exists.
type HubLookup func(hubID string) (*models.PickupHub, error)

// ParseDeliveryInfo normalizes the delivery field from whatever shape an old
// row carried: a JSON object, a doubly-encoded JSON string, or a bare string.
// It never fails; unparseable input degrades to an address-only descriptor.
func ParseDeliveryInfo(raw json.RawMessage) *models.DeliveryInfo {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var info models.DeliveryInfo
	if err := json.Unmarshal(raw, &info); err == nil && info.Method != "" {
		return &info
	}

	// Early rows stored the object serialized as a string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(s), &info); err == nil && info.Method != "" {
			return &info
		}
		// Plain free-text address.
		return &models.DeliveryInfo{Address: s}
	}

	return nil
}

// ResolveDeliveryDisplay is total over every legal delivery-info shape: it
// always returns a descriptor and never an error.
func ResolveDeliveryDisplay(info *models.DeliveryInfo, lookup HubLookup) models.DeliveryDisplay {
	if info == nil {
		return models.DeliveryDisplay{Type: "Unknown", Icon: "home", Label: "No Info"}
	}

	switch info.Method {
	case models.MethodPickup:
		return resolvePickup(info, lookup)
	case models.MethodDelivery:
		label := info.Address
		if label == "" {
			label = "No Address Provided"
		}
		return models.DeliveryDisplay{
			Type:     "Home Delivery",
			Icon:     "home",
			Label:    label,
			SubLabel: "Home Delivery",
		}
	default:
		label := info.Address
		if label == "" {
			label = "No Info"
		}
		return models.DeliveryDisplay{Type: "Unknown", Icon: "home", Label: label}
	}
}

func resolvePickup(info *models.DeliveryInfo, lookup HubLookup) models.DeliveryDisplay {
	var hub *models.PickupHub
	if info.HubID != "" && lookup != nil {
		if h, err := lookup(info.HubID); err == nil {
			hub = h
		}
	}

	// Fall back to hub fields embedded in legacy rows, then to a generic label.
	name := info.HubName
	area := info.HubArea
	region := ""
	if hub != nil {
		name, area, region = hub.Name, hub.Area, hub.Region
	}
	if name == "" {
		name = "Unknown Hub"
	}

	label := name
	if area != "" {
		label = name + " (" + area + ")"
	}
	sub := region
	if sub == "" {
		sub = "Pickup Center"
	}

	return models.DeliveryDisplay{
		Type:     "Pickup",
		Icon:     "warehouse",
		Label:    label,
		SubLabel: sub,
	}
}
