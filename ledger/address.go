package ledger

// Address is an opaque account identifier. Every address implicitly has
// balance 0 until credited; no account record is ever created or
// destroyed explicitly.
type Address string

// NullAddress is the null account. It can never receive funds and is the
// synthetic sender on mint notifications.
const NullAddress Address = ""

// IsNull reports whether the address is the null account.
func (a Address) IsNull() bool {
	return a == NullAddress
}

// String returns the address as a plain string.
func (a Address) String() string {
	return string(a)
}
