package extract

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/natthawutgeng05/ocr-typhoon/internal/address"
)

// Strategy names, in priority order per field.
const (
	StrategyBlockUntilMarker = "block-until-marker"
	StrategyBlockUntilEnd    = "block-until-end"
	StrategyThreeLines       = "three-lines"
	StrategyTwoLines         = "two-lines"
	StrategyNameOnly         = "name-only"

	StrategyOrderID       = "order-id"
	StrategyOrderSpacedID = "order-spaced-id"
	StrategyOrderIDJoined = "orderid"

	StrategyShippingDate = "shipping-date"
	StrategyShipDate     = "ship-date"
	StrategyDate         = "date"
)

// RecipientMarker introduces the addressee on a label.
const RecipientMarker = "ถึง"

// matchTimeout bounds a single backtracking match.
const matchTimeout = 2 * time.Second

// thaiBlock is the Thai Unicode block as a character class range. The marker
// must not continue a Thai word (ส่งถึง, จนถึง) nor run into one (ถึงแม้).
const thaiBlock = "\u0E00-\u0E7F"

// Pattern fragments. OCR output is markdown, so labels may be wrapped in ** and
// separated from their values by stray asterisks.
const (
	marker    = `(?<![` + thaiBlock + `*])(?:\*\*)?` + RecipientMarker + `(?:[ \t*]+|[ \t*]*:)[ \t*]*`
	nameLine  = `(?<name>[^\s*][^\r\n]*?)[ \t*]*\r?\n`
	nameOnly  = `(?<name>[^\s*][^\r\n]*?)[ \t*]*(?:\r?\n|\z)`
	stopLine  = `[ \t]*\**[ \t]*(?:\(\+\)|COD|Weight|Order)`
	blockLine = `[^\r\n]*\S[^\r\n]*`
	lineEnd   = `(?:\r?\n|\z)`
	labelSep  = `[ \t*]*:?[ \t*]*(?:\r?\n[ \t*]*)?`
	dateSep   = `[ \t*]*:[ \t*]*(?:\r?\n[ \t*]*)?`
	dateValue = `(?<value>[^\r\n]+?)[ \t*]*` + lineEnd
)

// strategy is one entry of an ordered first-match-wins table. build turns a
// match into field values and may reject it.
type strategy struct {
	name  string
	re    *regexp2.Regexp
	build func(m *regexp2.Match) ([]string, bool)
}

func compile(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.IgnoreCase|regexp2.Multiline)
	re.MatchTimeout = matchTimeout
	return re
}

var recipientStrategies = []strategy{
	{
		name:  StrategyBlockUntilMarker,
		re:    compile(`^[ \t]*` + marker + nameLine + `(?<address>(?:` + blockLine + `\r?\n)*?)(?=` + stopLine + `|[ \t]*\r?\n)`),
		build: buildBlock,
	},
	{
		name:  StrategyBlockUntilEnd,
		re:    compile(`^[ \t]*` + marker + nameLine + `(?<address>(?:` + blockLine + lineEnd + `)*?)(?=` + stopLine + `|[ \t]*` + lineEnd + `)`),
		build: buildBlock,
	},
	{
		name:  StrategyThreeLines,
		re:    compile(marker + nameLine + `(?<line1>[^\r\n]+)\r?\n(?<line2>[^\r\n]+)` + lineEnd),
		build: buildLines,
	},
	{
		name:  StrategyTwoLines,
		re:    compile(marker + nameLine + `(?<line1>[^\r\n]+)` + lineEnd),
		build: buildLines,
	},
	{
		name:  StrategyNameOnly,
		re:    compile(marker + nameOnly),
		build: buildLines,
	},
}

var orderIDStrategies = []strategy{
	{name: StrategyOrderID, re: compile(`Order ID` + labelSep + `(?<value>\d+)`), build: buildValue},
	{name: StrategyOrderSpacedID, re: compile(`Order\s+ID` + labelSep + `(?<value>\d+)`), build: buildValue},
	{name: StrategyOrderIDJoined, re: compile(`OrderID` + labelSep + `(?<value>\d+)`), build: buildValue},
}

var shippingDateStrategies = []strategy{
	{name: StrategyShippingDate, re: compile(`Shipping[ \t]+Date` + dateSep + dateValue), build: buildValue},
	{name: StrategyShipDate, re: compile(`Ship[ \t]+Date` + dateSep + dateValue), build: buildValue},
	{name: StrategyDate, re: compile(`Date` + dateSep + dateValue), build: buildValue},
}

// buildBlock returns name and the whitespace-collapsed address block.
func buildBlock(m *regexp2.Match) ([]string, bool) {
	name := cleanValue(m.GroupByName("name").String())
	if name == "" {
		return nil, false
	}
	return []string{name, cleanAddress(m.GroupByName("address").String())}, true
}

// buildLines returns name and the non-empty address lines joined with ", ".
func buildLines(m *regexp2.Match) ([]string, bool) {
	name := cleanValue(m.GroupByName("name").String())
	if name == "" {
		return nil, false
	}
	var parts []string
	for _, g := range []string{"line1", "line2"} {
		grp := m.GroupByName(g)
		if grp == nil {
			continue
		}
		if v := cleanAddress(grp.String()); v != "" {
			parts = append(parts, v)
		}
	}
	return []string{name, strings.Join(parts, ", ")}, true
}

func buildValue(m *regexp2.Match) ([]string, bool) {
	v := cleanValue(m.GroupByName("value").String())
	if v == "" {
		return nil, false
	}
	return []string{v}, true
}

// cleanAddress drops markdown emphasis and collapses whitespace.
func cleanAddress(s string) string {
	return address.Normalize(strings.ReplaceAll(s, "*", ""))
}

// cleanValue trims whitespace and markdown emphasis.
func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*"))
}
