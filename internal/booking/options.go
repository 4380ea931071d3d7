package booking

import (
	"fmt"
	"strings"
	"time"
)

// TimeSlots are the fixed appointment start times, in display order. There is
// no 1:00 PM or 1:30 PM slot.
var TimeSlots = []string{
	"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "12:00 PM", "12:30 PM",
	"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM",
	"4:00 PM", "4:30 PM", "5:00 PM",
}

const slotLayout = "3:04 PM"

// ParseTimeSlot checks that slot is one of TimeSlots.
func ParseTimeSlot(slot string) (string, error) {
	slot = strings.TrimSpace(slot)
	for _, s := range TimeSlots {
		if s == slot {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTimeSlot, slot)
}

// slotClock returns the hour and minute a slot label starts at.
func slotClock(slot string) (int, int, error) {
	t, err := time.Parse(slotLayout, slot)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownTimeSlot, slot)
	}
	return t.Hour(), t.Minute(), nil
}

// PaymentMethod is how the patient intends to pay.
type PaymentMethod string

const (
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentCash       PaymentMethod = "cash"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentUPI, PaymentNetBanking, PaymentCash}

// ParsePaymentMethod validates a raw payment method code.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, m := range PaymentMethods {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, raw)
}

// Label is the human-readable name of the payment method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentUPI:
		return "UPI"
	case PaymentNetBanking:
		return "Net Banking"
	case PaymentCash:
		return "Cash (Pay at Clinic)"
	default:
		return string(m)
	}
}

// PaymentOption pairs a method code with its label for option lists.
type PaymentOption struct {
	Value PaymentMethod `json:"value"`
	Label string        `json:"label"`
}

// PaymentOptions returns the selectable payment methods.
func PaymentOptions() []PaymentOption {
	out := make([]PaymentOption, 0, len(PaymentMethods))
	for _, m := range PaymentMethods {
		out = append(out, PaymentOption{Value: m, Label: m.Label()})
	}
	return out
}
