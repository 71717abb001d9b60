package types

// TypeID identifies a kind of PII, e.g. "CreditCard".
type TypeID string

const (
	CreditCard TypeID = "CreditCard"
	Email      TypeID = "Email"
	Phone      TypeID = "Phone"
)

// AllTypes lists the supported PII types in report priority order.
var AllTypes = []TypeID{CreditCard, Email, Phone}

// Priority returns the report position of t. Unknown types sort last.
func Priority(t TypeID) int {
	for i, known := range AllTypes {
		if known == t {
			return i
		}
	}
	return len(AllTypes)
}

// String returns the type name.
func (t TypeID) String() string {
	return string(t)
}
