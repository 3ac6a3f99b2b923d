package domain

import (
	"github.com/shopspring/decimal"
)

// Amount é um valor monetário com precisão total. Só é arredondado na serialização.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// Rounded arredonda para 2 casas, metade para cima
func (a Amount) Rounded() decimal.Decimal {
	return a.Decimal.Round(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.StringFixed(2)), nil
}

func (a Amount) String() string {
	return a.Decimal.StringFixed(2)
}

// Percent é uma taxa em pontos percentuais (25 = 25%)
type Percent struct {
	decimal.Decimal
}

func NewPercent(d decimal.Decimal) Percent {
	return Percent{Decimal: d}
}

func (p Percent) Rounded() decimal.Decimal {
	return p.Decimal.Round(2)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.StringFixed(2)), nil
}

func (p Percent) String() string {
	return p.Decimal.StringFixed(2)
}
