package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"clubbet/domain/entities"
)

const (
	// MinPrice and MaxPrice bound acceptable decimal odds.
	MinPrice = 1.01
	MaxPrice = 1000.0
)

// OddsCalculator contains pure odds math with no side effects. All
// intermediate values stay unrounded; rounding happens only at the
// formatting boundary or when converting to a payout amount.
type OddsCalculator struct{}

// NewOddsCalculator creates a new OddsCalculator
func NewOddsCalculator() *OddsCalculator {
	return &OddsCalculator{}
}

// ValidatePrice checks a decimal price against the allowed bounds
func (c *OddsCalculator) ValidatePrice(price float64) error {
	if math.IsNaN(price) || price < MinPrice || price > MaxPrice {
		return fmt.Errorf("%w: price %.4f outside [%.2f, %.2f]", entities.ErrInvalidOdds, price, MinPrice, MaxPrice)
	}
	return nil
}

// CombinedOdds combines leg prices according to the bet structure: the
// single price for SINGLE, the product of all prices for ACCUMULATOR.
func (c *OddsCalculator) CombinedOdds(structure entities.BetStructure, legPrices []float64) (float64, error) {
	if len(legPrices) == 0 {
		return 0, fmt.Errorf("%w: no legs", entities.ErrInvalidStructure)
	}
	for _, price := range legPrices {
		if err := c.ValidatePrice(price); err != nil {
			return 0, err
		}
	}

	switch structure {
	case entities.BetStructureSingle:
		if len(legPrices) != 1 {
			return 0, fmt.Errorf("%w: single bet requires exactly 1 leg, got %d", entities.ErrInvalidStructure, len(legPrices))
		}
		return legPrices[0], nil
	case entities.BetStructureAccumulator:
		if len(legPrices) < 2 {
			return 0, fmt.Errorf("%w: accumulator requires at least 2 legs, got %d", entities.ErrInvalidStructure, len(legPrices))
		}
		combined := 1.0
		for _, price := range legPrices {
			combined *= price
		}
		return combined, nil
	default:
		return 0, fmt.Errorf("%w: unknown structure %q", entities.ErrInvalidStructure, structure)
	}
}

// PotentialReturn computes stake times combined odds, rounded to the
// nearest hundredth of a point.
func (c *OddsCalculator) PotentialReturn(stake int64, combinedOdds float64) (int64, error) {
	if stake <= 0 {
		return 0, fmt.Errorf("%w: stake must be positive, got %d", entities.ErrInvalidStake, stake)
	}
	if combinedOdds <= 1.0 {
		return 0, fmt.Errorf("%w: combined odds must exceed 1.0, got %.4f", entities.ErrInvalidOdds, combinedOdds)
	}
	ret := math.Round(float64(stake) * combinedOdds)
	// float64(math.MaxInt64) is 2^63; anything at or above it would wrap
	// when converted back to int64.
	if ret >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%w: return %.0f at odds %.2f exceeds the representable amount", entities.ErrInvalidOdds, ret, combinedOdds)
	}
	return int64(ret), nil
}

// PotentialProfit computes the potential return minus the stake
func (c *OddsCalculator) PotentialProfit(stake int64, combinedOdds float64) (int64, error) {
	ret, err := c.PotentialReturn(stake, combinedOdds)
	if err != nil {
		return 0, err
	}
	return ret - stake, nil
}

// ImpliedProbability converts a decimal price to a percentage probability
func (c *OddsCalculator) ImpliedProbability(price float64) (float64, error) {
	if price <= 1.0 {
		return 0, fmt.Errorf("%w: price must exceed 1.0, got %.4f", entities.ErrInvalidOdds, price)
	}
	return (1 / price) * 100, nil
}

// MarketMargin computes the bookmaker overround for a full, mutually
// exclusive market as a percentage. Positive is the expected vig; a
// near-zero or negative margin means the market is mispriced.
func (c *OddsCalculator) MarketMargin(prices []float64) (float64, error) {
	total, err := c.totalImplied(prices)
	if err != nil {
		return 0, err
	}
	return (total - 1) * 100, nil
}

// HasArbitrage reports whether a full market's implied probabilities sum
// below 1, admitting a risk-free combination across all outcomes.
func (c *OddsCalculator) HasArbitrage(prices []float64) (bool, error) {
	total, err := c.totalImplied(prices)
	if err != nil {
		return false, err
	}
	return total < 1, nil
}

func (c *OddsCalculator) totalImplied(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, fmt.Errorf("%w: empty market", entities.ErrInvalidOdds)
	}
	total := 0.0
	for _, price := range prices {
		if price <= 1.0 {
			return 0, fmt.Errorf("%w: price must exceed 1.0, got %.4f", entities.ErrInvalidOdds, price)
		}
		total += 1 / price
	}
	return total, nil
}

// FormatOdds renders a decimal price with two decimal places
func (c *OddsCalculator) FormatOdds(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// ToFractional converts a decimal price to fractional notation (e.g. 2.5
// becomes "3/2").
func (c *OddsCalculator) ToFractional(price float64) string {
	if price <= 1 {
		return "0/1"
	}
	// Two decimal places of precision on the profit part.
	numerator := int64(math.Round((price - 1) * 100))
	denominator := int64(100)
	d := gcd(numerator, denominator)
	return fmt.Sprintf("%d/%d", numerator/d, denominator/d)
}

// ToAmerican converts a decimal price to American notation (e.g. 2.5
// becomes "+150", 1.5 becomes "-200").
func (c *OddsCalculator) ToAmerican(price float64) string {
	if price <= 1 {
		return "+0"
	}
	if price >= 2 {
		return fmt.Sprintf("+%d", int64(math.Round((price-1)*100)))
	}
	return strconv.FormatInt(int64(math.Round(-100/(price-1))), 10)
}

// FromAmerican converts American notation to a decimal price
func (c *OddsCalculator) FromAmerican(american string) (float64, error) {
	odds, err := strconv.ParseFloat(strings.TrimPrefix(american, "+"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not american odds", entities.ErrInvalidOdds, american)
	}
	if odds >= 100 {
		return odds/100 + 1, nil
	}
	if odds <= -100 {
		return 100/(-odds) + 1, nil
	}
	return 0, fmt.Errorf("%w: american odds must be <= -100 or >= +100, got %q", entities.ErrInvalidOdds, american)
}

// FromFractional converts fractional notation to a decimal price
func (c *OddsCalculator) FromFractional(fractional string) (float64, error) {
	parts := strings.Split(fractional, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q is not fractional odds", entities.ErrInvalidOdds, fractional)
	}
	numerator, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not fractional odds", entities.ErrInvalidOdds, fractional)
	}
	denominator, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || denominator == 0 {
		return 0, fmt.Errorf("%w: %q is not fractional odds", entities.ErrInvalidOdds, fractional)
	}
	return numerator/denominator + 1, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
