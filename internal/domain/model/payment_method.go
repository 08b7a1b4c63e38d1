package model

// 支払い方法は国ごとの許可リストで閉じた集合にする
type PaymentMethod string

const (
	PaymentMethodGcash        PaymentMethod = "gcash"
	PaymentMethodPaymaya      PaymentMethod = "paymaya"
	PaymentMethodBPI          PaymentMethod = "bpi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPaynow       PaymentMethod = "paynow"
	PaymentMethodGrabpay      PaymentMethod = "grabpay"
)

// 既知の支払い方法かどうか
func (m PaymentMethod) Known() bool {
	switch m {
	case PaymentMethodGcash, PaymentMethodPaymaya, PaymentMethodBPI,
		PaymentMethodBankTransfer, PaymentMethodPaynow, PaymentMethodGrabpay:
		return true
	default:
		return false
	}
}

// ContainsMethodはmethodsの中にmがあるかを返す
func ContainsMethod(methods []PaymentMethod, m PaymentMethod) bool {
	for _, x := range methods {
		if x == m {
			return true
		}
	}
	return false
}
