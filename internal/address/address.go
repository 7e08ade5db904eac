// Package address splits comma-delimited Thai shipping addresses into components.
package address

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// postalPattern matches exactly five Arabic or Thai digits that are not part
// of a longer digit run, so phone numbers never yield a postal code.
var postalPattern = regexp.MustCompile(`(?:^|[^0-9๐-๙])([0-9๐-๙]{5})(?:[^0-9๐-๙]|$)`)

// Segment positions.
const (
	streetSegment   = 0
	districtSegment = 1
	provinceSegment = 2
	postalSegment   = 3
)

// Rule names recorded in the trace.
const (
	RuleSegment = "segment"
	RuleScan    = "scan"
)

// Parse decomposes address text. It never fails: missing components stay empty.
// The returned address always carries a Trace.
func Parse(text string) types.ParsedAddress {
	cleaned := Normalize(text)
	segments := Split(cleaned)

	trace := &types.AddressTrace{
		Original: text,
		Cleaned:  cleaned,
		Segments: segments,
		Rules:    make(map[string]string),
	}
	result := types.ParsedAddress{
		FullAddress: cleaned,
		Trace:       trace,
	}

	if len(segments) == 0 {
		trace.Notes = append(trace.Notes, "empty address")
		return result
	}

	assign := func(idx int, field string, dst *string) {
		if idx < len(segments) {
			*dst = segments[idx]
			trace.Rules[field] = fmt.Sprintf("%s[%d]", RuleSegment, idx)
		}
	}
	assign(streetSegment, "street_address", &result.StreetAddress)
	assign(districtSegment, "district", &result.District)
	assign(provinceSegment, "province", &result.Province)

	if len(segments) < 3 {
		trace.Notes = append(trace.Notes, fmt.Sprintf("only %d segment(s), province not present", len(segments)))
	}

	if len(segments) > postalSegment {
		if code, ok := FindPostalCode(segments[postalSegment]); ok {
			result.PostalCode = code
			trace.Rules["postal_code"] = fmt.Sprintf("%s[%d]", RuleSegment, postalSegment)
			return result
		}
		trace.Notes = append(trace.Notes, fmt.Sprintf("no postal code in segment %d", postalSegment))
	}

	if len(segments) > postalSegment+1 {
		for i, seg := range segments {
			if code, ok := FindPostalCode(seg); ok {
				result.PostalCode = code
				trace.Rules["postal_code"] = fmt.Sprintf("%s[%d]", RuleScan, i)
				return result
			}
		}
		trace.Notes = append(trace.Notes, "no postal code in any segment")
	}

	return result
}

// Normalize collapses whitespace runs, including line breaks, to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split breaks an address on commas, dropping blank segments.
func Split(text string) []string {
	parts := strings.Split(text, ",")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// FindPostalCode returns the first standalone 5-digit run in s.
func FindPostalCode(s string) (string, bool) {
	m := postalPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
