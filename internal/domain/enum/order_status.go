package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderStatus is the kitchen preparation stage of an order.
// The stages form a strict line: pending -> preparing -> ready -> completed.
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusPreparing OrderStatus = 1
	OrderStatusReady     OrderStatus = 2
	OrderStatusCompleted OrderStatus = 3
)

var orderStatusNames = [...]string{"pending", "preparing", "ready", "completed"}

func (s OrderStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
	return orderStatusNames[s]
}

func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusPending && s <= OrderStatusCompleted
}

// IsTerminal reports whether no further transition exists.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted
}

// Next returns the single successor of s, or false when s is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	if !s.IsValid() || s.IsTerminal() {
		return s, false
	}
	return s + 1, true
}

// CanTransition reports whether to is the direct successor of from.
func CanTransition(from, to OrderStatus) bool {
	next, ok := from.Next()
	return ok && next == to
}

// ParseOrderStatus accepts the lowercase status name.
func ParseOrderStatus(str string) (OrderStatus, error) {
	for i, name := range orderStatusNames {
		if strings.EqualFold(str, name) {
			return OrderStatus(i), nil
		}
	}
	return OrderStatusPending, fmt.Errorf("unknown order status %q", str)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !OrderStatus(i).IsValid() {
			return fmt.Errorf("unknown order status %d", i)
		}
		*s = OrderStatus(i)
		return nil
	}
	parsed, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int32:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}
