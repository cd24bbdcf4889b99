package enum

import (
	"encoding/json"
	"fmt"
)

// PaymentMethod is how a sale was settled. Payment is simulated; no gateway is involved.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodDigital PaymentMethod = "digital"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodDigital
}

// Label is the human form printed on receipts.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodDigital:
		return "Digital"
	}
	return string(m)
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if !PaymentMethod(str).IsValid() {
		return fmt.Errorf("unknown payment method %q", str)
	}
	*m = PaymentMethod(str)
	return nil
}
