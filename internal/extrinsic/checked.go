package extrinsic

// SignedBy identifies the account a checked extrinsic was sent from together
// with its transaction index.
type SignedBy[ID any] struct {
	Account ID
	Index   uint64
}

// Checked is an extrinsic whose signature, if any, has been verified. It is
// only produced by Check.
type Checked[ID, C any] struct {
	Signed   *SignedBy[ID]
	Function C
}

func (c Checked[ID, C]) Sender() (ID, bool) {
	if c.Signed == nil {
		var zero ID
		return zero, false
	}
	return c.Signed.Account, true
}

func (c Checked[ID, C]) Index() (uint64, bool) {
	if c.Signed == nil {
		return 0, false
	}
	return c.Signed.Index, true
}

func (c Checked[ID, C]) Call() C {
	return c.Function
}

func (c Checked[ID, C]) Deconstruct() (*SignedBy[ID], C) {
	return c.Signed, c.Function
}
