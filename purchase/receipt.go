package purchase

import (
	"bytes"
	"fmt"
	"time"

	"storefront-service/domain"

	"github.com/go-pdf/fpdf"
)

// Receipt renders the downloadable purchase receipt. It is a pure
// formatting step with no network dependency: everything printed comes
// from the arguments.
type Receipt struct {
	SiteName    string
	VideoTitle  string
	Price       float64
	ProductLink string
	ContactNote string
	PurchasedAt time.Time
}

func NewReceipt(siteName string, video *domain.Video, artifact *domain.AccessArtifact, purchasedAt time.Time) Receipt {
	r := Receipt{
		SiteName:    siteName,
		VideoTitle:  video.Title,
		Price:       video.Price,
		PurchasedAt: purchasedAt,
	}
	if artifact != nil {
		r.ProductLink = artifact.ProductLink
		if artifact.ProductLink == "" {
			r.ContactNote = artifact.ManualNotice
			if artifact.ContactHandle != "" {
				r.ContactNote = fmt.Sprintf("%s Contact: @%s", artifact.ManualNotice, artifact.ContactHandle)
			}
		}
	}
	return r
}

// PDF produces the receipt document: title block, purchase details,
// the access link (or the manual-access notice), and fixed
// instructional text.
func (r Receipt) PDF() ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, fmt.Sprintf("%s - Purchase Receipt", r.SiteName), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Item: %s", r.VideoTitle), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Date: %s", r.PurchasedAt.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Price: $%.2f USD", r.Price), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Access", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if r.ProductLink != "" {
		pdf.MultiCell(0, 6, fmt.Sprintf("Your content is available at: %s", r.ProductLink), "", "L", false)
	} else {
		note := r.ContactNote
		if note == "" {
			note = "Your access will be granted manually. Please reach out on the contact channel with this receipt."
		}
		pdf.MultiCell(0, 6, note, "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, "Keep this receipt as proof of purchase. Access links are personal and must not be shared. For any issue with your purchase, contact support through the channel listed on the site.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
