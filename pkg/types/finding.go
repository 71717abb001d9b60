package types

// Finding pairs a match with the PII type that produced it and the block it
// was found in.
type Finding struct {
	Type    TypeID
	Match   Match
	Locator Locator
}
