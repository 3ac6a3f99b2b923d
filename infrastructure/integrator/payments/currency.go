package payments

import (
	"strings"

	"github.com/shopspring/decimal"
)

// moedas sem casas decimais na Stripe
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

var threeDecimalCurrencies = map[string]struct{}{
	"bhd": {}, "jod": {}, "kwd": {}, "omr": {}, "tnd": {},
}

func currencyExponent(currency string) int32 {
	currency = strings.ToLower(currency)

	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return 0
	}
	if _, ok := threeDecimalCurrencies[currency]; ok {
		return 3
	}
	return 2
}

// fromMinorUnits converte centavos (ou a menor unidade da moeda) para o valor decimal
func fromMinorUnits(amount int64, currency string) decimal.Decimal {
	return decimal.New(amount, -currencyExponent(currency))
}
