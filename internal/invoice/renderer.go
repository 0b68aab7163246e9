package invoice

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"
	qrcode "github.com/skip2/go-qrcode"

	"foodbooking/internal/models"
)

const (
	pageWidth  = 595.28 // A4 in points
	pageHeight = 841.89
	marginX    = 56.0
	bottomY    = 780.0
)

// Renderer turns an order into PDF bytes. It has no side effects beyond
// the returned buffer; a missing font file is reported as an error that
// callers treat as "PDF generation unavailable", not a crash.
type Renderer struct {
	FontPath string
}

func NewRenderer(fontPath string) *Renderer {
	return &Renderer{FontPath: fontPath}
}

// Generate renders the invoice for an order whose items all belong to
// the given restaurant. The caller validates that invariant at order
// creation; the restaurant block is derived from it, never guessed from
// item zero.
func (r *Renderer) Generate(order *models.Order, items []models.OrderItem, restaurant *models.Restaurant) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("invoice", r.FontPath); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	addHeader(pdf)
	if err := pdf.SetFont("invoice", "", 11); err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}

	addOrderInfo(pdf, order)
	addRestaurantInfo(pdf, restaurant)

	y := addItemTable(pdf, items)
	y = addTotals(pdf, items, y)
	addQRCode(pdf, order, y)
	addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf) {
	pdf.SetFillColor(247, 115, 23)
	pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 85, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(marginX)
	pdf.SetY(35)
	if err := pdf.SetFont("invoice", "", 18); err == nil {
		pdf.Cell(nil, "FoodBooking Invoice")
	}
	pdf.SetTextColor(0, 0, 0)
}

func addOrderInfo(pdf *gopdf.GoPdf, order *models.Order) {
	info := []struct {
		Label string
		Value string
	}{
		{"Order ID", fmt.Sprintf("%d", order.ID)},
		{"Date", order.CreatedAt.Format("Jan 02, 2006 15:04")},
		{"Customer", order.CustomerName},
		{"Phone", order.CustomerPhone},
		{"Delivery Address", order.Address},
		{"Payment", order.PaymentMethod},
	}

	pdf.SetY(105)
	for _, item := range info {
		pdf.SetX(marginX)
		pdf.Cell(nil, item.Label+": "+item.Value)
		pdf.Br(18)
	}
}

func addRestaurantInfo(pdf *gopdf.GoPdf, restaurant *models.Restaurant) {
	if restaurant == nil {
		return
	}
	pdf.SetY(105)
	pdf.SetX(360)
	pdf.Cell(nil, "Restaurant")
	pdf.Br(16)
	pdf.SetX(360)
	pdf.Cell(nil, restaurant.Name)
	if restaurant.Address != "" {
		pdf.Br(16)
		pdf.SetX(360)
		address := restaurant.Address
		if len(address) > 38 {
			address = address[:38]
		}
		pdf.Cell(nil, address)
	}
}

func tableHeader(pdf *gopdf.GoPdf) float64 {
	y := pdf.GetY()
	pdf.SetX(marginX)
	pdf.Cell(nil, "Item")
	pdf.SetX(320)
	pdf.Cell(nil, "Qty")
	pdf.SetX(390)
	pdf.Cell(nil, "Price")
	pdf.SetX(470)
	pdf.Cell(nil, "Total")
	pdf.SetStrokeColor(200, 200, 200)
	pdf.Line(marginX, y+16, pageWidth-marginX, y+16)
	return y + 26
}

// addItemTable writes one row per line item, starting a new page when
// the content runs past the bottom margin.
func addItemTable(pdf *gopdf.GoPdf, items []models.OrderItem) float64 {
	pdf.SetY(235)
	y := tableHeader(pdf)

	for _, item := range items {
		if y > bottomY {
			pdf.AddPage()
			pdf.SetY(40)
			y = tableHeader(pdf)
		}

		name := fmt.Sprintf("dish %d", item.DishID)
		if item.Dish != nil {
			name = item.Dish.Name
		}

		pdf.SetY(y)
		pdf.SetX(marginX)
		pdf.Cell(nil, name)
		pdf.SetX(320)
		pdf.Cell(nil, fmt.Sprintf("%d", item.Quantity))
		pdf.SetX(390)
		pdf.Cell(nil, item.Price.StringFixed(2))
		pdf.SetX(470)
		pdf.Cell(nil, item.LineTotal().StringFixed(2))
		y += 18
	}
	return y + 12
}

func addTotals(pdf *gopdf.GoPdf, items []models.OrderItem, y float64) float64 {
	if y > bottomY-80 {
		pdf.AddPage()
		y = 40
	}

	totals := Compute(items)
	lines := []string{
		"Subtotal: " + totals.Subtotal.StringFixed(2),
		"CGST (2.5%): " + totals.CGST.StringFixed(2),
		"SGST (2.5%): " + totals.SGST.StringFixed(2),
		"Grand Total: " + totals.GrandTotal.StringFixed(2),
	}

	for _, line := range lines {
		pdf.SetY(y)
		pdf.SetX(360)
		pdf.Cell(nil, line)
		y += 16
	}
	return y + 10
}

// addQRCode embeds the order reference so staff can pull the invoice up
// at handover. Encoding failure just drops the code from the page.
func addQRCode(pdf *gopdf.GoPdf, order *models.Order, y float64) {
	qrBytes, err := qrcode.Encode(fmt.Sprintf("foodbooking:invoice:%d", order.ID), qrcode.Medium, 256)
	if err != nil {
		return
	}
	img, err := png.Decode(bytes.NewReader(qrBytes))
	if err != nil {
		return
	}
	if y > bottomY-110 {
		pdf.AddPage()
		y = 40
	}
	rect := &gopdf.Rect{W: 96, H: 96}
	_ = pdf.ImageFrom(img, marginX, y, rect)
}

func addFooter(pdf *gopdf.GoPdf) {
	pdf.SetY(pageHeight - 50)
	pdf.SetX(marginX)
	pdf.Cell(nil, "Thank you for ordering with FoodBooking!")
}
