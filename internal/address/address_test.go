package address

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		street   string
		district string
		province string
		postal   string
	}{
		{
			name:     "four segments",
			input:    "A, B, C, 12345 D",
			street:   "A",
			district: "B",
			province: "C",
			postal:   "12345",
		},
		{
			name:   "single segment",
			input:  "A",
			street: "A",
		},
		{
			name:  "empty",
			input: "",
		},
		{
			name:  "only commas and spaces",
			input: " , ,\n, ",
		},
		{
			name:     "thai label with line breaks",
			input:    "99/1 ม.4 ต.บางพูด,\n  อ.ปากเกร็ด,  จ.นนทบุรี,\n11120",
			street:   "99/1 ม.4 ต.บางพูด",
			district: "อ.ปากเกร็ด",
			province: "จ.นนทบุรี",
			postal:   "11120",
		},
		{
			name:     "blank segments are dropped before positional assignment",
			input:    "A,, B, , C, 54321",
			street:   "A",
			district: "B",
			province: "C",
			postal:   "54321",
		},
		{
			name:     "four segments without postal code",
			input:    "A, B, C, D",
			street:   "A",
			district: "B",
			province: "C",
		},
		{
			name:     "five segments trigger a full scan",
			input:    "A, B, C, D, 10110",
			street:   "A",
			district: "B",
			province: "C",
			postal:   "10110",
		},
		{
			name:     "postal code outside segment three is ignored with four segments",
			input:    "12345, B, C, D",
			street:   "12345",
			district: "B",
			province: "C",
		},
		{
			name:     "thai digits",
			input:    "A, B, C, ๑๐๒๕๐",
			street:   "A",
			district: "B",
			province: "C",
			postal:   "๑๐๒๕๐",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.StreetAddress != tt.street {
				t.Errorf("street: got %q, want %q", got.StreetAddress, tt.street)
			}
			if got.District != tt.district {
				t.Errorf("district: got %q, want %q", got.District, tt.district)
			}
			if got.Province != tt.province {
				t.Errorf("province: got %q, want %q", got.Province, tt.province)
			}
			if got.PostalCode != tt.postal {
				t.Errorf("postal: got %q, want %q", got.PostalCode, tt.postal)
			}
			if got.Trace == nil {
				t.Fatal("expected trace")
			}
		})
	}
}

func TestParse_PostalScanOrder(t *testing.T) {
	// Segment 1 carries a phone number and segment 3 has no code, so the scan
	// must skip the 10-digit run and settle on segment 5.
	input := "12/3 หมู่ 5, โทร 0812345678, C, D, E, แขวงลาดยาว 10900"
	got := Parse(input)

	if got.PostalCode != "10900" {
		t.Fatalf("postal: got %q, want %q", got.PostalCode, "10900")
	}
	if rule := got.Trace.Rules["postal_code"]; rule != "scan[5]" {
		t.Errorf("rule: got %q, want scan[5]", rule)
	}
	if len(got.Trace.Segments) != 6 {
		t.Errorf("segments: got %d, want 6", len(got.Trace.Segments))
	}
}

func TestParse_FirstScanMatchWins(t *testing.T) {
	got := Parse("A, B, C, D, 11111, 22222")
	if got.PostalCode != "11111" {
		t.Errorf("postal: got %q, want 11111", got.PostalCode)
	}
}

func TestParse_Trace(t *testing.T) {
	got := Parse("  A,\n B  ")
	if got.Trace.Original != "  A,\n B  " {
		t.Errorf("original: got %q", got.Trace.Original)
	}
	if got.Trace.Cleaned != "A, B" {
		t.Errorf("cleaned: got %q", got.Trace.Cleaned)
	}
	if got.FullAddress != "A, B" {
		t.Errorf("full address: got %q", got.FullAddress)
	}
	if got.Trace.Rules["street_address"] != "segment[0]" {
		t.Errorf("street rule: got %q", got.Trace.Rules["street_address"])
	}
	if _, ok := got.Trace.Rules["province"]; ok {
		t.Error("province rule should be absent")
	}
	if len(got.Trace.Notes) == 0 {
		t.Error("expected a note about the missing province")
	}
}

func TestFindPostalCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"10110", "10110", true},
		{"กรุงเทพ 10110 ไทย", "10110", true},
		{"123456", "", false},
		{"1234", "", false},
		{"tel 0891234567 zip 50200", "50200", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := FindPostalCode(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
