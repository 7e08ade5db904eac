// Package extract pulls shipping-label fields out of OCR text.
//
// Every field is located by an ordered table of pattern strategies; the first
// strategy that yields a value wins. Extraction always produces a trace, which
// callers that do not need diagnostics simply ignore.
package extract

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/natthawutgeng05/ocr-typhoon/internal/address"
	"github.com/natthawutgeng05/ocr-typhoon/internal/types"
)

// PreviewLength is the number of characters kept in a trace preview.
const PreviewLength = 500

// Extract locates recipient, address, order id and shipping date in page text.
// It never fails; fields that cannot be found are left empty.
func Extract(text string) (types.ExtractedFields, *types.ExtractionTrace) {
	var fields types.ExtractedFields
	trace := &types.ExtractionTrace{
		TextLength:  len([]rune(text)),
		TextPreview: preview(text, PreviewLength),
	}

	if v := runStrategies(text, recipientStrategies, &trace.Recipient); v != nil {
		fields.RecipientName = v[0]
		fields.RecipientAddress = v[1]
	}

	if fields.RecipientName != "" && fields.RecipientAddress == "" {
		scan := manualScan(text, fields.RecipientName)
		trace.ManualScan = scan
		fields.RecipientAddress = scan.CombinedAddress
	}

	parsed := address.Parse(fields.RecipientAddress)
	trace.Address = parsed.Trace
	parsed.Trace = nil
	fields.ParsedAddress = parsed

	if v := runStrategies(text, orderIDStrategies, &trace.OrderID); v != nil {
		fields.OrderID = v[0]
	}
	if v := runStrategies(text, shippingDateStrategies, &trace.ShippingDate); v != nil {
		fields.ShippingDate = v[0]
	}

	return fields, trace
}

// runStrategies evaluates strategies in order and returns the values of the
// first accepted match, recording every attempt in trace.
func runStrategies(text string, strategies []strategy, trace *types.FieldTrace) []string {
	trace.PatternIndex = -1
	for i, s := range strategies {
		attempt := types.PatternAttempt{
			Index:    i,
			Strategy: s.name,
			Pattern:  s.re.String(),
		}

		m, err := s.re.FindStringMatch(text)
		if err != nil {
			// only a match timeout lands here
			attempt.Error = err.Error()
		}

		var values []string
		if m != nil {
			values, attempt.Matched = s.build(m)
		}
		trace.Attempts = append(trace.Attempts, attempt)
		if !attempt.Matched {
			continue
		}

		trace.Matched = s.name
		trace.PatternIndex = i
		trace.Span = &types.Span{Start: m.Index, End: m.Index + m.Length}
		trace.FullMatch = m.String()
		trace.Groups = groupValues(m)
		trace.Value = values[0]
		return values
	}
	return nil
}

func groupValues(m *regexp2.Match) []string {
	groups := m.Groups()
	values := make([]string, 0, len(groups)-1)
	for _, g := range groups[1:] {
		values = append(values, g.String())
	}
	return values
}

func manualScan(text, name string) *types.ManualScanTrace {
	lines := strings.Split(text, "\n")
	idx := FindRecipientLine(lines, name)
	scan := &types.ManualScanTrace{RecipientLine: idx}
	if idx < 0 {
		return scan
	}
	scan.AddressLines = ScanAddressLines(lines, idx)
	scan.CombinedAddress = strings.Join(scan.AddressLines, " ")
	return scan
}

func preview(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
