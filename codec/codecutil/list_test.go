/*
NAME
  list_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package codecutil

import "testing"

func TestIsValid(t *testing.T) {
	for _, g := range Grammars {
		if !IsValid(g) {
			t.Errorf("listed grammar %q is not valid", g)
		}
	}
	for _, g := range []string{"", "CSV", "json", "h264"} {
		if IsValid(g) {
			t.Errorf("unexpected valid grammar %q", g)
		}
	}
}
