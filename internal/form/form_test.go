package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/segmenter/internal/segment"
)

func TestDefaultsParseToOriginalExample(t *testing.T) {
	got, err := Parse(Defaults())
	if err != nil {
		t.Fatalf("Parse defaults: %v", err)
	}
	want := segment.FeatureRecord{
		Age: 35, Income: 50000, TotalSpending: 1000,
		NumWebPurchases: 10, NumStorePurchases: 10, NumWebVisitsMonth: 3, Recency: 30,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldParse(t *testing.T) {
	age, _ := Lookup(KeyAge)
	income, _ := Lookup(KeyIncome)
	cases := []struct {
		field Field
		raw   string
		want  float64
		err   error
	}{
		{age, " 42 ", 42, nil},
		{age, "42.0", 42, nil},
		{age, "42.5", 0, ErrNotInteger},
		{age, "17", 0, ErrOutOfRange},
		{age, "101", 0, ErrOutOfRange},
		{age, "", 0, ErrEmpty},
		{age, "forty", 0, ErrNotANumber},
		{age, "NaN", 0, ErrNotANumber},
		{income, "1_250.75", 1250.75, nil},
		{income, "200000", 200000, nil},
		{income, "200000.01", 0, ErrOutOfRange},
		{income, "-1", 0, ErrOutOfRange},
	}
	for _, tc := range cases {
		got, err := tc.field.Parse(tc.raw)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%s %q: expected %v, got %v", tc.field.Key, tc.raw, tc.err, err)
			}
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field.Key != tc.field.Key {
				t.Fatalf("%s %q: expected FieldError, got %v", tc.field.Key, tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s %q: unexpected error %v", tc.field.Key, tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%s %q: got %v want %v", tc.field.Key, tc.raw, got, tc.want)
		}
	}
}

func TestParseUnboundedAcceptsOutOfRange(t *testing.T) {
	values := Defaults()
	values[KeyAge] = "-5"
	values[KeyRecency] = "10000"
	if _, err := Parse(values); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected bounded parse to fail, got %v", err)
	}
	got, err := Parse(values, Unbounded())
	if err != nil {
		t.Fatalf("unbounded parse: %v", err)
	}
	if got.Age != -5 || got.Recency != 10000 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestParseJoinsFieldErrors(t *testing.T) {
	values := Defaults()
	values[KeyAge] = "abc"
	values[KeyNumWebVisits] = "51"
	_, err := Parse(values)
	if !errors.Is(err, ErrNotANumber) || !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	values := Defaults()
	values["shoe_size"] = "44"
	if _, err := Parse(values); !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestFieldsCoverFeatureNames(t *testing.T) {
	if len(Fields) != segment.NumFeatures {
		t.Fatalf("expected %d fields, got %d", segment.NumFeatures, len(Fields))
	}
	seen := map[string]bool{}
	for _, f := range Fields {
		if seen[f.Key] {
			t.Fatalf("duplicate key %s", f.Key)
		}
		seen[f.Key] = true
		if f.Default < f.Min || f.Default > f.Max {
			t.Fatalf("%s default %d outside [%d, %d]", f.Key, f.Default, f.Min, f.Max)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	record := segment.FeatureRecord{
		Age: 44, Income: 61234.5, TotalSpending: 0.25,
		NumWebPurchases: 3, NumStorePurchases: 7, NumWebVisitsMonth: 2, Recency: 90,
	}
	values := Format(record)
	if values[KeyIncome] != "61234.5" {
		t.Fatalf("unexpected income text %q", values[KeyIncome])
	}
	got, err := Parse(values)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(record, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnboundedWholeNumbersBeyondInt64(t *testing.T) {
	age, _ := Lookup(KeyAge)
	got, err := age.ParseUnbounded("100000000000000000000")
	if err != nil {
		t.Fatalf("ParseUnbounded: %v", err)
	}
	if got != 1e20 {
		t.Fatalf("got %v want 1e20", got)
	}
	if got, err := age.ParseUnbounded("4.2e1"); err != nil || got != 42 {
		t.Fatalf("4.2e1: got %v, %v", got, err)
	}
	if _, err := age.ParseUnbounded("100000000000000000000.5"); !errors.Is(err, ErrNotInteger) {
		t.Fatalf("expected fractional value to be rejected, got %v", err)
	}
	if _, err := age.Parse("100000000000000000000"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected bounded parse to report range, got %v", err)
	}
}
