package domain

import (
	"math"
	"strings"

	"nowmarketing_backend/platform/phone"
)

// earthRadiusKm is the sphere radius used for great-circle distances.
// Consumers sort by this value, so the formula must not be approximated.
const earthRadiusKm = 6371

var inf = math.Inf(1)

// fallbackName is used when no name-bearing tag is present on a feature.
const fallbackName = "Marketing Agency"

// genericTag is appended to every record so it stays discoverable under the
// broad category even when source tagging is sparse.
const genericTag = "Marketing"

// namePrecedence is the ordered list of tags a display name is resolved from.
var namePrecedence = []string{"name", "brand", "operator", "official_name"}

var websitePrecedence = []string{"website", "contact:website"}

var phonePrecedence = []string{"phone", "contact:phone"}

var descriptionPrecedence = []string{"description", "description:en", "note"}

// NormalizeOptions carries the optional inputs of a normalization pass.
type NormalizeOptions struct {
	// Center, when set, is the distance origin for DistanceKm.
	Center *Coordinate
	// Category, when set, is added to the record's tag set.
	Category string
}

// Normalize maps a raw map feature plus a locality hint into a canonical
// Agency. It performs no I/O and cannot fail: malformed input degrades to
// nil/empty fields.
func Normalize(element Element, hint LocationHint, opts NormalizeOptions) Agency {
	tags := element.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	coord, hasCoord := element.Coordinate()
	address, city, country := extractAddress(tags, hint)
	name := resolveFirst(tags, namePrecedence, fallbackName)

	agency := Agency{
		ExternalID: element.ExternalID(),
		Name:       name,
		Location: Location{
			City:    city,
			Country: country,
			Address: address,
		},
		Description: resolveDescription(tags, city),
		Services:    []string{},
		Tags:        buildTagSet(tags, opts.Category),
		Website:     optionalTag(tags, websitePrecedence),
		Phone:       normalizePhone(tags),
		Pricing:     map[string]interface{}{},
		Stats:       map[string]interface{}{},
	}

	if hasCoord {
		lat, lng := coord.Lat, coord.Lng
		agency.Location.Lat = &lat
		agency.Location.Lng = &lng
		if opts.Center != nil {
			distance := HaversineKm(opts.Center.Lat, opts.Center.Lng, lat, lng)
			agency.Location.DistanceKm = &distance
		}
	}

	return agency
}

// HaversineKm computes the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// resolveFirst returns the first non-empty tag from the precedence list,
// falling back to the given default.
func resolveFirst(tags map[string]string, precedence []string, fallback string) string {
	for _, key := range precedence {
		if value := tags[key]; value != "" {
			return value
		}
	}
	return fallback
}

func optionalTag(tags map[string]string, precedence []string) *string {
	value := resolveFirst(tags, precedence, "")
	if value == "" {
		return nil
	}
	return &value
}

func normalizePhone(tags map[string]string) *string {
	raw := resolveFirst(tags, phonePrecedence, "")
	if raw == "" {
		return nil
	}
	normalized := phone.NormalizeE164(raw)
	return &normalized
}

func resolveDescription(tags map[string]string, city string) string {
	if description := resolveFirst(tags, descriptionPrecedence, ""); description != "" {
		return description
	}
	if city != "" {
		return "Marketing agency in " + city + "."
	}
	return "Marketing agency"
}

// extractAddress composes a display address from addr:* tags, preferring the
// feature's own city/country over the locality hint, and falling back to the
// hint's display name when nothing is tagged.
func extractAddress(tags map[string]string, hint LocationHint) (address, city, country string) {
	street := strings.TrimSpace(strings.Join(nonEmpty(tags["addr:housenumber"], tags["addr:street"]), " "))

	city = tags["addr:city"]
	if city == "" {
		city = hint.City
	}
	country = tags["addr:country"]
	if country == "" {
		country = hint.Country
	}

	parts := nonEmpty(street, city, tags["addr:postcode"], country)
	address = strings.Join(parts, ", ")
	if address == "" {
		address = hint.DisplayName
	}
	return address, city, country
}

func nonEmpty(values ...string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			result = append(result, value)
		}
	}
	return result
}

// buildTagSet collects the office/shop/service tag values plus the optional
// caller-supplied category, title-cased and deduplicated, and always appends
// the generic category marker.
func buildTagSet(tags map[string]string, category string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, 4)

	add := func(value string) {
		if value == "" {
			return
		}
		cased := titleCase(value)
		if seen[cased] {
			return
		}
		seen[cased] = true
		result = append(result, cased)
	}

	add(tags["office"])
	add(tags["shop"])
	add(tags["service"])
	add(category)
	add(genericTag)

	return result
}

// titleCase replaces underscores with spaces and capitalizes each word, so
// "public_relations" becomes "Public Relations".
func titleCase(value string) string {
	words := strings.Split(strings.ReplaceAll(value, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
