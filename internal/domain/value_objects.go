package domain

type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, NewInvalidAmountError(amount)
	}
	if len(currency) != 3 {
		return Money{}, NewInvalidCurrencyError(currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}
