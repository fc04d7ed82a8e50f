package orders

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"agribridge/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Receipt renders a PDF receipt for the order. The embedded QR code carries
// the order reference so pickup-hub staff can match a collection against it.
func (h *Handlers) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	view, err := h.svc.GetOrder(ctx, ps.ByName("id"))
	if err != nil {
		respondOrderError(w, err)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if view.Order.UserID != userID && !slices.Contains(utils.GetRolesFromRequest(r), "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	qrPNG, err := qrcode.Encode(view.Order.OrderID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Golden Acres Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", view.Order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s (%s)", view.Order.CustomerName, view.Order.CustomerPhone))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", view.Order.CreatedAt.Format("2 Jan 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s / %s", view.Order.Status, view.Order.PaymentStatus))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Destination: %s - %s", view.Delivery.Type, view.Delivery.Label))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 8, "Item")
	pdf.Cell(40, 8, "Farmer")
	pdf.Cell(20, 8, "Qty")
	pdf.Cell(30, 8, "Subtotal")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	for _, it := range view.Items {
		pdf.Cell(80, 7, it.Name)
		pdf.Cell(40, 7, it.FarmerName)
		pdf.Cell(20, 7, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(30, 7, fmt.Sprintf("GHS %.2f", it.Price*float64(it.Quantity)))
		pdf.Ln(7)
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: GHS %.2f", view.Order.TotalAmount))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("order-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=receipt-%s.pdf", view.Order.OrderID))
	if err := pdf.Output(w); err != nil {
		log.Println("receipt render error:", err)
	}
}
