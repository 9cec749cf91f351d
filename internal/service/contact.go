package service

import (
	"errors"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/mapmymeal/api/internal/dto"
	"github.com/mapmymeal/api/internal/entity"
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "IN"
)

var idnaProfile = idna.Lookup

// ContactNormalizer cleans the phone and website shown for each restaurant.
type ContactNormalizer struct {
	DefaultRegion string
}

// NewContactNormalizer builds a normalizer that reads national numbers in region.
func NewContactNormalizer(region string) *ContactNormalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactNormalizer{DefaultRegion: region}
}

// Phone returns the number in international format, or "" when it is not a valid number.
func (n *ContactNormalizer) Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, n.DefaultRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// Website returns a cleaned absolute URL with an ASCII host and no utm_ parameters,
// or "" when the value is not a usable link.
func (n *ContactNormalizer) Website(raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	host, err := idnaProfile.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil || !isDomainValid(host) {
		return ""
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	stripTracking(u)
	return u.String()
}

// View renders a restaurant for display.
func (n *ContactNormalizer) View(r entity.Restaurant) dto.RestaurantView {
	view := dto.RestaurantView{
		Name:      r.Title().Or("Unknown"),
		Rating:    r.Rating().Or("N/A"),
		Price:     r.Price().Or("N/A"),
		Address:   r.Address().Or(""),
		MenuItems: len(r.MenuItems().Or(nil)),
	}
	if phone, ok := r.Phone().Get(); ok {
		view.Phone = n.Phone(phone)
	}
	if site, ok := r.Website().Get(); ok {
		view.Website = n.Website(site)
	}
	return view
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		u.Scheme = strings.ToLower(u.Scheme)
	default:
		return nil, errors.New("unsupported scheme")
	}
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
