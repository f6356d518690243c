package usecase

import (
	"fmt"
	"strings"

	"github.com/assumable-map/internal/domain"
	"github.com/assumable-map/internal/pkg/utils"
)

// ListingToPoint converts one raw listing into a MapPoint, or nil when the
// record has no usable coordinates. Pure: same record, same point.
func ListingToPoint(l domain.Listing) *domain.MapPoint {
	lat, lon := l.Centroid.Latitude, l.Centroid.Longitude
	if !lat.Valid || !lon.Valid {
		return nil
	}
	if !utils.ValidateCoordinates(lat.Value, lon.Value) {
		return nil
	}

	price := utils.ParseMoney(l.CashFormat)
	bucket := ClassifyPrice(price)

	return &domain.MapPoint{
		Lat:       lat.Value,
		Lon:       lon.Value,
		PopupHTML: buildPopup(l),
		Color:     bucket.Color,
		Group:     bucket.Label,
	}
}

// buildPopup assembles the pin popup from whichever descriptive fields are
// present. PriceHtml and Content arrive pre-rendered from the listing source.
func buildPopup(l domain.Listing) string {
	var b strings.Builder
	b.WriteString(`<div style="width:300px">`)

	if l.PhotoLink != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="Property Image" style="width:100%%; border-radius:6px; margin-bottom:8px;"><br>`, l.PhotoLink)
	}
	if l.PriceHTML != "" {
		fmt.Fprintf(&b, "<strong>%s</strong><br>", l.PriceHTML)
	}
	if l.CashFormat != "" {
		fmt.Fprintf(&b, "<strong>Cash:</strong> %s<br>", l.CashFormat)
	}
	if l.Location != "" {
		fmt.Fprintf(&b, "<em>%s</em><br><br>", l.Location)
	}
	if l.Content != "" {
		b.WriteString(l.Content)
		b.WriteString("<br><br>")
	}
	if l.MainFeatures.Rate != "" {
		fmt.Fprintf(&b, "<strong>Rate:</strong> %s<br>", l.MainFeatures.Rate)
	}
	if l.MainFeatures.PaymentFormat != "" {
		fmt.Fprintf(&b, "<strong>Monthly:</strong> %s<br>", l.MainFeatures.PaymentFormat)
	}
	if l.MainFeatures.EstimatedPayFormat != "" {
		fmt.Fprintf(&b, "<strong>Estimated:</strong> %s<br>", l.MainFeatures.EstimatedPayFormat)
	}
	if link := zillowLink(l); link != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank">View on Zillow</a>`, link)
	}

	b.WriteString("</div>")
	return b.String()
}

// zillowLink derives a Zillow details URL from the listing address and the
// zpid embedded in the photo URL's file name.
func zillowLink(l domain.Listing) string {
	if l.Location == "" {
		return ""
	}
	slug := strings.ReplaceAll(l.Location, ",", "")
	slug = strings.ToLower(strings.ReplaceAll(slug, " ", "-"))

	suffix := "/"
	if l.PhotoLink != "" {
		parts := strings.Split(l.PhotoLink, "/")
		if zpid, _, found := strings.Cut(parts[len(parts)-1], "_"); found && zpid != "" {
			suffix = "/" + zpid + "_zpid/"
		}
	}
	return "https://www.zillow.com/homedetails/" + slug + suffix
}
