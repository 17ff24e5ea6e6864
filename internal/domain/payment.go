package domain

// PaymentMethod is one of the fixed single-letter selectors surfaced by the
// till: E for cash, Y/P/O for the three virtual wallets.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "E"
	MethodYape   PaymentMethod = "Y"
	MethodPlin   PaymentMethod = "P"
	MethodOther  PaymentMethod = "O"
)

var methodLabels = map[PaymentMethod]string{
	MethodCash:  "Efectivo",
	MethodYape:  "Yape",
	MethodPlin:  "Plin",
	MethodOther: "Otros",
}

// PaymentMethods lists the valid selectors in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodCash, MethodYape, MethodPlin, MethodOther}
}

func (m PaymentMethod) Valid() bool {
	_, ok := methodLabels[m]
	return ok
}

// Virtual reports whether the method counts toward the virtual total rather
// than the cash total.
func (m PaymentMethod) Virtual() bool {
	return m == MethodYape || m == MethodPlin || m == MethodOther
}

// Label returns the human name for the selector, or "Otros" for anything
// outside the closed set (matching how historical day logs are aggregated).
func (m PaymentMethod) Label() string {
	if label, ok := methodLabels[m]; ok {
		return label
	}
	return methodLabels[MethodOther]
}
