package domain

import (
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/apierror"
)

// PaymentMethod enumerates the supported tender types.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentMixed PaymentMethod = "mixed"
)

// Payment is an immutable tender instruction. The constructors enforce the
// shape of each method — a cash payment without a received amount cannot be
// built, it fails right away with BUSINESS_INVALID_PAYMENT rather than
// surfacing later as a nil dereference in validation.
type Payment struct {
	method       PaymentMethod
	cashReceived *Money // cash and mixed
	cardAmount   *Money // mixed only
}

// CashPayment builds a cash tender.
func CashPayment(received Money) Payment {
	return Payment{method: PaymentCash, cashReceived: &received}
}

// CardPayment builds a card tender. Card payments carry no amounts: the
// terminal authorizes the full total externally.
func CardPayment() Payment {
	return Payment{method: PaymentCard}
}

// MixedPayment builds a split cash+card tender.
func MixedPayment(cash, card Money) Payment {
	return Payment{method: PaymentMixed, cashReceived: &cash, cardAmount: &card}
}

// NewPayment builds a Payment from loosely-typed input (the checkout request).
// Missing required amounts or an unsupported method fail hard here.
func NewPayment(method PaymentMethod, cashReceived, cardAmount *Money) (Payment, error) {
	switch method {
	case PaymentCash:
		if cashReceived == nil {
			return Payment{}, apierror.Business(apierror.CodeInvalidPayment,
				"cash payment requires a received amount")
		}
		return CashPayment(*cashReceived), nil
	case PaymentCard:
		return CardPayment(), nil
	case PaymentMixed:
		if cashReceived == nil || cardAmount == nil {
			return Payment{}, apierror.Business(apierror.CodeInvalidPayment,
				"mixed payment requires both cash and card amounts")
		}
		return MixedPayment(*cashReceived, *cardAmount), nil
	default:
		return Payment{}, apierror.Business(apierror.CodeInvalidPayment,
			"unsupported payment method").WithContext("method", string(method))
	}
}

func (p Payment) Method() PaymentMethod { return p.method }

// CashReceived returns the cash component, or nil for card payments.
func (p Payment) CashReceived() *Money { return p.cashReceived }

// CardAmount returns the card component of a mixed payment, or nil.
func (p Payment) CardAmount() *Money { return p.cardAmount }

// CalculateChange returns received − total, or BUSINESS_INVALID_PAYMENT when
// received does not cover the total.
func CalculateChange(received, total Money) (Money, error) {
	if received.LessThan(total) {
		return Money{}, apierror.Business(apierror.CodeInvalidPayment,
			"received amount is less than the total").
			WithContext("received", received.String()).
			WithContext("total", total.String())
	}
	return received.Sub(total), nil
}

// Validate checks sufficiency against total. The orchestrator re-runs this
// immediately before persisting the sale: the cart total may have changed
// between payment entry and checkout confirmation.
func (p Payment) Validate(total Money) error {
	switch p.method {
	case PaymentCash:
		if p.cashReceived.LessThan(total) {
			return apierror.Business(apierror.CodeInvalidPayment,
				"insufficient cash received").
				WithContext("received", p.cashReceived.String()).
				WithContext("total", total.String())
		}
		return nil
	case PaymentCard:
		return nil
	case PaymentMixed:
		combined := p.cashReceived.Add(*p.cardAmount)
		if combined.LessThan(total) {
			return apierror.Business(apierror.CodeInvalidPayment,
				"combined cash and card amounts do not cover the total").
				WithContext("cash", p.cashReceived.String()).
				WithContext("card", p.cardAmount.String()).
				WithContext("total", total.String())
		}
		return nil
	default:
		return apierror.Business(apierror.CodeInvalidPayment, "unsupported payment method")
	}
}

// Change returns the change due for the already-validated total: cash over the
// total comes back to the customer, card payments never produce change.
func (p Payment) Change(total Money) Money {
	switch p.method {
	case PaymentCash:
		return p.cashReceived.Sub(total)
	case PaymentMixed:
		return p.cashReceived.Add(*p.cardAmount).Sub(total)
	default:
		return Zero()
	}
}
