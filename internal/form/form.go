// Package form describes the seven customer fields the input surface collects
// and turns raw text into a segment.FeatureRecord. Bounds live here, not in
// the pipeline.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/kingrea/segmenter/internal/segment"
)

var (
	ErrEmpty       = errors.New("value is required")
	ErrNotANumber  = errors.New("not a number")
	ErrNotInteger  = errors.New("must be a whole number")
	ErrOutOfRange  = errors.New("out of range")
	ErrUnknownName = errors.New("unknown field")
)

// Field keys, also used as flag names and tool argument names.
const (
	KeyAge               = "age"
	KeyIncome            = "income"
	KeyTotalSpending     = "total_spending"
	KeyNumWebPurchases   = "num_web_purchases"
	KeyNumStorePurchases = "num_store_purchases"
	KeyNumWebVisits      = "num_web_visits_month"
	KeyRecency           = "recency"
)

// Field describes one input with its documented bounds.
type Field struct {
	Key     string
	Label   string
	Min     int64
	Max     int64
	Default int64
	// Decimal allows fractional values (currency fields).
	Decimal bool
	// Column is the form column the field is rendered in.
	Column int
}

// Fields lists the inputs in display order.
var Fields = []Field{
	{Key: KeyAge, Label: "Age", Min: 18, Max: 100, Default: 35, Column: 0},
	{Key: KeyIncome, Label: "Income", Min: 0, Max: 200000, Default: 50000, Decimal: true, Column: 0},
	{Key: KeyTotalSpending, Label: "Total Spending", Min: 0, Max: 5000, Default: 1000, Decimal: true, Column: 0},
	{Key: KeyRecency, Label: "Recency (days since last purchase)", Min: 0, Max: 365, Default: 30, Column: 0},
	{Key: KeyNumWebPurchases, Label: "Number of Web Purchases", Min: 0, Max: 100, Default: 10, Column: 1},
	{Key: KeyNumStorePurchases, Label: "Number of Store Purchases", Min: 0, Max: 100, Default: 10, Column: 1},
	{Key: KeyNumWebVisits, Label: "Number of Web Visits/Month", Min: 0, Max: 50, Default: 3, Column: 1},
}

// Lookup returns the field with the given key.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// FieldError ties a parse failure to its field.
type FieldError struct {
	Field Field
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrOutOfRange) {
		return fmt.Sprintf("%s: %q is out of range [%d, %d]", e.Field.Label, e.Value, e.Field.Min, e.Field.Max)
	}
	return fmt.Sprintf("%s: %q: %v", e.Field.Label, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Parse converts raw input into a number and enforces the field bounds.
func (f Field) Parse(raw string) (float64, error) {
	return f.parse(raw, true)
}

// ParseUnbounded converts raw input without enforcing bounds.
func (f Field) ParseUnbounded(raw string) (float64, error) {
	return f.parse(raw, false)
}

func (f Field) parse(raw string, bounded bool) (float64, error) {
	text := strings.ReplaceAll(strings.TrimSpace(raw), "_", "")
	if text == "" {
		return 0, &FieldError{Field: f, Value: raw, Err: ErrEmpty}
	}
	d, _, err := apd.NewFromString(text)
	if err != nil || d.Form != apd.Finite {
		return 0, &FieldError{Field: f, Value: raw, Err: ErrNotANumber}
	}
	if !f.Decimal && !isWhole(d) {
		return 0, &FieldError{Field: f, Value: raw, Err: ErrNotInteger}
	}
	if bounded && (d.Cmp(apd.New(f.Min, 0)) < 0 || d.Cmp(apd.New(f.Max, 0)) > 0) {
		return 0, &FieldError{Field: f, Value: raw, Err: ErrOutOfRange}
	}
	v, err := d.Float64()
	if err != nil {
		return 0, &FieldError{Field: f, Value: raw, Err: ErrNotANumber}
	}
	return v, nil
}

// isWhole reports whether d has no fractional part, at any magnitude.
func isWhole(d *apd.Decimal) bool {
	var reduced apd.Decimal
	reduced.Reduce(d)
	return reduced.Exponent >= 0
}

// DefaultText renders the field default as form text.
func (f Field) DefaultText() string {
	return fmt.Sprintf("%d", f.Default)
}

// Values holds raw text keyed by field key.
type Values map[string]string

// Defaults returns the initial value of every field.
func Defaults() Values {
	values := make(Values, len(Fields))
	for _, f := range Fields {
		values[f.Key] = f.DefaultText()
	}
	return values
}

// Option customizes Parse.
type Option func(*options)

type options struct {
	unbounded bool
}

// Unbounded skips the documented range checks.
func Unbounded() Option {
	return func(o *options) { o.unbounded = true }
}

// Parse converts every field and returns all field errors joined.
func Parse(values Values, opts ...Option) (segment.FeatureRecord, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	for key := range values {
		if _, ok := Lookup(key); !ok {
			return segment.FeatureRecord{}, fmt.Errorf("form: %w %q", ErrUnknownName, key)
		}
	}
	parsed := make(map[string]float64, len(Fields))
	var errs []error
	for _, f := range Fields {
		v, err := f.parse(values[f.Key], !o.unbounded)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parsed[f.Key] = v
	}
	if len(errs) > 0 {
		return segment.FeatureRecord{}, errors.Join(errs...)
	}
	return segment.FeatureRecord{
		Age:               parsed[KeyAge],
		Income:            parsed[KeyIncome],
		TotalSpending:     parsed[KeyTotalSpending],
		NumWebPurchases:   parsed[KeyNumWebPurchases],
		NumStorePurchases: parsed[KeyNumStorePurchases],
		NumWebVisitsMonth: parsed[KeyNumWebVisits],
		Recency:           parsed[KeyRecency],
	}, nil
}

// Format renders a record as form text, so numeric callers go through the
// same checks as typed input.
func Format(r segment.FeatureRecord) Values {
	return Values{
		KeyAge:               formatNumber(r.Age),
		KeyIncome:            formatNumber(r.Income),
		KeyTotalSpending:     formatNumber(r.TotalSpending),
		KeyNumWebPurchases:   formatNumber(r.NumWebPurchases),
		KeyNumStorePurchases: formatNumber(r.NumStorePurchases),
		KeyNumWebVisits:      formatNumber(r.NumWebVisitsMonth),
		KeyRecency:           formatNumber(r.Recency),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
