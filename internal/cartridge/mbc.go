package cartridge

// mbcCategory tags which of the five fixed MBC variants a Cartridge holds.
// Variants are dispatched with a switch over this tag rather than an
// interface, per the fixed, small variant set and the cost a vtable call
// would add to the hot ROM/RAM read path; it also keeps save-state
// serialization a flat switch instead of a type assertion.
type mbcCategory uint8

const (
	categoryNone mbcCategory = iota
	categoryMBC1
	categoryMBC2
	categoryMBC3
	categoryMBC5
)
