package validation

import (
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return v
}

func requireValidation(t *testing.T, err error, fragment string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if !strings.Contains(typed.Message(), fragment) {
		t.Fatalf("expected message containing %q, got %q", fragment, typed.Message())
	}
}

func TestDecimalQuantizesToTwoPlaces(t *testing.T) {
	got, err := Decimal(dec(t, "10.005"), "capacity", DecimalOptions{})
	if err != nil {
		t.Fatalf("decimal: %v", err)
	}
	if got.String() != "10.01" {
		t.Fatalf("unexpected quantized value %s", got)
	}
}

func TestDecimalRejectsNonPositive(t *testing.T) {
	_, err := Decimal(dec(t, "0"), "capacity", DecimalOptions{})
	requireValidation(t, err, "capacity: Value must be positive")

	_, err = Decimal(dec(t, "-3.50"), "capacity", DecimalOptions{})
	requireValidation(t, err, "capacity: Value must be positive")
}

func TestDecimalAllowsZeroWhenConfigured(t *testing.T) {
	got, err := Decimal(decimal.Zero, "quantity", DecimalOptions{AllowZero: true})
	if err != nil {
		t.Fatalf("decimal: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestDecimalRangeMessages(t *testing.T) {
	min := dec(t, "5")
	max := dec(t, "10")

	_, err := Decimal(dec(t, "4"), "temperature", DecimalOptions{Min: &min, Max: &max})
	requireValidation(t, err, "Value must be greater than 5")

	_, err = Decimal(dec(t, "11"), "temperature", DecimalOptions{Min: &min, Max: &max})
	requireValidation(t, err, "Value must be less than 10")
}

func TestTemperatureIncrements(t *testing.T) {
	for _, ok := range []string{"-30", "-12.5", "0", "0.5", "22", "50"} {
		if _, err := Temperature(dec(t, ok)); err != nil {
			t.Fatalf("temperature %s should be valid: %v", ok, err)
		}
	}
	_, err := Temperature(dec(t, "20.3"))
	requireValidation(t, err, "Temperature must be in increments of 0.5 degrees")

	_, err = Temperature(dec(t, "-30.5"))
	requireValidation(t, err, "between -30 and 50")

	_, err = Temperature(dec(t, "50.5"))
	requireValidation(t, err, "between -30 and 50")
}

func TestHumidityWholePercent(t *testing.T) {
	for _, ok := range []string{"0", "45", "100"} {
		if _, err := Humidity(dec(t, ok)); err != nil {
			t.Fatalf("humidity %s should be valid: %v", ok, err)
		}
	}
	_, err := Humidity(dec(t, "45.5"))
	requireValidation(t, err, "Humidity must be a whole number percentage")

	_, err = Humidity(dec(t, "101"))
	requireValidation(t, err, "between 0 and 100")

	_, err = Humidity(dec(t, "-1"))
	requireValidation(t, err, "between 0 and 100")
}

func TestCapacityCannotShrinkBelowUsage(t *testing.T) {
	got, err := Capacity(dec(t, "40"), dec(t, "100"))
	if err != nil {
		t.Fatalf("capacity: %v", err)
	}
	if got.String() != "100" {
		t.Fatalf("expected 100, got %s", got)
	}

	_, err = Capacity(dec(t, "40"), dec(t, "30"))
	requireValidation(t, err, "Cannot reduce capacity below current usage (40)")

	_, err = Capacity(decimal.Zero, dec(t, "-1"))
	requireValidation(t, err, "capacity: Value must be positive")
}

func TestDimensionsNameOffendingField(t *testing.T) {
	if _, _, _, err := Dimensions(dec(t, "10"), dec(t, "5"), dec(t, "3")); err != nil {
		t.Fatalf("dimensions: %v", err)
	}

	_, _, _, err := Dimensions(dec(t, "10"), dec(t, "0"), dec(t, "3"))
	requireValidation(t, err, "width")

	_, _, _, err = Dimensions(dec(t, "10"), dec(t, "5"), dec(t, "-2"))
	requireValidation(t, err, "height")

	_, _, _, err = Dimensions(dec(t, "0"), dec(t, "5"), dec(t, "3"))
	requireValidation(t, err, "length")
}
