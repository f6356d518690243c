package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Coord is a geo coordinate as delivered by the listing source, which mixes
// JSON numbers, numeric strings and nulls in the same field. Anything that
// does not parse to a number leaves Valid false instead of failing the
// surrounding document.
type Coord struct {
	Value float64
	Valid bool
}

func (c *Coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		c.Value, c.Valid = f, true
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	c.Value, c.Valid = f, true
	return nil
}

// FlexString accepts either a JSON string or a number and keeps the string
// form. Upstream identifiers flip between the two across pages.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(data)
	return nil
}

// MainFeatures carries loan terms the listing source renders pre-formatted.
type MainFeatures struct {
	Rate               string `json:"Rate"`
	PaymentFormat      string `json:"PaymentFormat"`
	EstimatedPayFormat string `json:"EstimatedPayFormat"`
}

type Centroid struct {
	Latitude  Coord `json:"latitude"`
	Longitude Coord `json:"longitude"`
}

// Listing is one raw record from a cached listing page. Loose upstream types
// are confined to Coord/FlexString; everything past the normalizer works with
// MapPoint instead.
type Listing struct {
	ListingID    FlexString   `json:"ListingId"`
	PriceHTML    string       `json:"PriceHtml"`
	CashFormat   string       `json:"CashFormat"`
	Location     string       `json:"Location"`
	Content      string       `json:"Content"`
	DetailsLink  string       `json:"DetailsLink"`
	PhotoLink    string       `json:"PhotoLink"`
	MainFeatures MainFeatures `json:"MainFeatures"`
	Centroid     Centroid     `json:"Centroid"`
}

// ListingPage is the listing source's page response.
type ListingPage struct {
	SearchPagerBar struct {
		TotalPages int `json:"TotalPages"`
	} `json:"SearchPagerBar"`
	MapList struct {
		Listings []Listing `json:"ListingsSummaryVM"`
	} `json:"MapList"`
}

// CachedDocument is the envelope every cache file is stored in: the request
// that produced it plus the verbatim response.
type CachedDocument struct {
	Request  interface{}     `json:"request"`
	Response json.RawMessage `json:"response"`
}
