package validation

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// All monetary-style quantities in the domain are held at a 2-place scale.
const scale = 2

var (
	dimensionMin         = decimal.RequireFromString("0.01")
	temperatureMin       = decimal.NewFromInt(-30)
	temperatureMax       = decimal.NewFromInt(50)
	temperatureIncrement = decimal.RequireFromString("0.5")
	humidityMax          = decimal.NewFromInt(100)
)

// DecimalOptions tune the range checks applied by Decimal.
type DecimalOptions struct {
	Min       *decimal.Decimal
	Max       *decimal.Decimal
	AllowZero bool
}

func fieldError(field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s: %s", field, message)).
		WithDetails(map[string]string{field: message})
}

// Decimal normalizes value to the domain scale and enforces the configured
// range. The returned error always carries the field name.
func Decimal(value decimal.Decimal, field string, opts DecimalOptions) (decimal.Decimal, error) {
	normalized := value.Round(scale)

	if !opts.AllowZero && !normalized.IsPositive() {
		return decimal.Decimal{}, fieldError(field, "Value must be positive")
	}
	if opts.Min != nil && normalized.LessThan(*opts.Min) {
		return decimal.Decimal{}, fieldError(field, fmt.Sprintf("Value must be greater than %s", opts.Min))
	}
	if opts.Max != nil && normalized.GreaterThan(*opts.Max) {
		return decimal.Decimal{}, fieldError(field, fmt.Sprintf("Value must be less than %s", opts.Max))
	}
	return normalized, nil
}

// PositiveDecimal is the common Decimal call for strictly positive quantities.
func PositiveDecimal(value decimal.Decimal, field string) (decimal.Decimal, error) {
	return Decimal(value, field, DecimalOptions{Min: &dimensionMin})
}

// Temperature checks the storage range (-30..50) and the business rule that
// readings arrive in 0.5 degree increments.
func Temperature(value decimal.Decimal) (decimal.Decimal, error) {
	normalized := value.Round(scale)
	if normalized.LessThan(temperatureMin) || normalized.GreaterThan(temperatureMax) {
		return decimal.Decimal{}, fieldError("temperature", "Value must be between -30 and 50")
	}
	if !normalized.Mod(temperatureIncrement).IsZero() {
		return decimal.Decimal{}, fieldError("temperature", "Temperature must be in increments of 0.5 degrees")
	}
	return normalized, nil
}

// Humidity checks the 0..100 range and that the reading is a whole percent.
func Humidity(value decimal.Decimal) (decimal.Decimal, error) {
	normalized := value.Round(scale)
	if normalized.IsNegative() || normalized.GreaterThan(humidityMax) {
		return decimal.Decimal{}, fieldError("humidity", "Value must be between 0 and 100")
	}
	if !normalized.Mod(decimal.NewFromInt(1)).IsZero() {
		return decimal.Decimal{}, fieldError("humidity", "Humidity must be a whole number percentage")
	}
	return normalized, nil
}

// Capacity validates a requested capacity figure against current usage. A
// capacity may never shrink below what the room already holds.
func Capacity(currentUsage, requested decimal.Decimal) (decimal.Decimal, error) {
	normalized, err := PositiveDecimal(requested, "capacity")
	if err != nil {
		return decimal.Decimal{}, err
	}
	if currentUsage.GreaterThan(normalized) {
		return decimal.Decimal{}, fieldError("capacity",
			fmt.Sprintf("Cannot reduce capacity below current usage (%s)", currentUsage))
	}
	return normalized, nil
}

// Dimensions validates all three room dimensions, tagging errors with the
// offending dimension's name.
func Dimensions(length, width, height decimal.Decimal) (l, w, h decimal.Decimal, err error) {
	if l, err = PositiveDecimal(length, "length"); err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	if w, err = PositiveDecimal(width, "width"); err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	if h, err = PositiveDecimal(height, "height"); err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	return l, w, h, nil
}
