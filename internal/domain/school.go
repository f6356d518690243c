package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Rating is a school rating that arrives as a number, a digit string, or not
// at all. Invalid stays distinguishable from zero.
type Rating struct {
	Value int
	Valid bool
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil
		}
		r.Value, r.Valid = n, true
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	r.Value, r.Valid = int(f), true
	return nil
}

// Tag returns the rating's filter value: the number, or "NA".
func (r Rating) Tag() string {
	if !r.Valid {
		return "NA"
	}
	return strconv.Itoa(r.Value)
}

type SchoolAddress struct {
	Street1 string `json:"street1"`
	City    string `json:"city"`
}

// School is one raw record from the school search response.
type School struct {
	Name       string        `json:"name"`
	Lat        Coord         `json:"lat"`
	Lon        Coord         `json:"lon"`
	Rating     Rating        `json:"rating"`
	SchoolType string        `json:"schoolType"`
	TypeSnake  string        `json:"school_type"`
	TypeShort  string        `json:"type"`
	IsPrivate  *bool         `json:"isPrivate"`
	IsCharter  *bool         `json:"isCharter"`
	Address    SchoolAddress `json:"address"`
}

// SchoolSearchResponse is the school source's page response.
type SchoolSearchResponse struct {
	Items []School `json:"items"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// SchoolMarker is one overlay pin, produced only on a successful overlay
// fetch.
type SchoolMarker struct {
	Lat       float64
	Lon       float64
	PopupHTML string
	Rating    Rating
	Type      string
	Color     string
	Tags      []FilterTag
}
