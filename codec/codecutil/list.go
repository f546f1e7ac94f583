/*
NAME
  list.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package codecutil

// All available grammars for reference in any application.
// When adding or removing a grammar from this list, the IsValid function and
// Grammars below must be updated.
const (
	CSV      = "csv"
	INI      = "ini"
	HexColor = "hexcolor" // One #RRGGBB colour per line.
	Lines    = "lines"    // Plain line splitting.
)

// Grammars lists every grammar name.
var Grammars = []string{CSV, INI, HexColor, Lines}

// IsValid checks if a string is a known and valid grammar in the right format.
func IsValid(s string) bool {
	switch s {
	case CSV, INI, HexColor, Lines:
		return true
	default:
		return false
	}
}
