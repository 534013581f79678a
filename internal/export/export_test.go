package export

import (
	"bytes"
	"image/png"
	"net/url"
	"strings"
	"testing"

	"github.com/patungan/splitbill/internal/models"
)

func TestRenderPNG(t *testing.T) {
	summary := models.Summary{
		Restaurant: models.RestaurantInfo{Name: "Warung Sari"},
		Initiator:  models.Initiator{Name: "Dian"},
		People: []models.PersonBreakdown{
			{
				Name: "Alice",
				Lines: []models.BreakdownLine{
					{Item: "Pizza", Quantity: 1, UnitPrice: 10, Amount: 10},
				},
				Subtotal: 10,
				TaxShare: 1,
				Total:    11,
			},
		},
		Subtotal:   10,
		TaxTotal:   1,
		GrandTotal: 11,
	}

	data, err := RenderPNG(summary)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() < imageMinWidth || bounds.Dy() <= imagePadding*2 {
		t.Errorf("unexpected image bounds: %v", bounds)
	}
}

func TestRenderPNGEmptySummary(t *testing.T) {
	data, err := RenderPNG(models.Summary{})
	if err != nil {
		t.Fatalf("RenderPNG on empty summary failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
}

func TestMailtoURL(t *testing.T) {
	link := MailtoURL("alice@example.com", "Split Bill Summary: Warung Sari", "Hi Alice,\n\nTotal: 1,000.5")

	if !strings.HasPrefix(link, "mailto:alice@example.com?") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, "+") {
		t.Errorf("spaces must be %%20-encoded, got %s", link)
	}
	if !strings.HasPrefix(link, "mailto:alice@example.com?subject=") {
		t.Errorf("subject must be the first query parameter, got %s", link)
	}
	if strings.Index(link, "subject=") > strings.Index(link, "body=") {
		t.Errorf("subject must precede body, got %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	query := parsed.Query()
	if got := query.Get("subject"); got != "Split Bill Summary: Warung Sari" {
		t.Errorf("subject = %q", got)
	}
	if got := query.Get("body"); !strings.Contains(got, "Hi Alice,") {
		t.Errorf("body = %q", got)
	}
}

func TestNewSMTPSenderRequiresHost(t *testing.T) {
	if _, err := NewSMTPSender(SMTPOptions{}); err == nil {
		t.Error("expected error for missing host")
	}
}
