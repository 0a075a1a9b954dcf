/*
Copyright © 2026 the Aquifer authors.
This file is part of Aquifer.

Aquifer is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Aquifer is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Aquifer.  If not, see <http://www.gnu.org/licenses/>.
*/

package hash

import "testing"

type record struct {
	Name string
	T, S []float64
}

func TestDigest(t *testing.T) {
	a := record{Name: "OW-1", T: []float64{1, 2}, S: []float64{0.5, 0.7}}
	b := record{Name: "OW-1", T: []float64{1, 2}, S: []float64{0.5, 0.8}}

	if Digest(a) != Digest(a) {
		t.Error("digest is not deterministic")
	}
	if Digest(a) == Digest(b) {
		t.Error("different inputs have the same digest")
	}
	if Digest(a, b) == Digest(b, a) {
		t.Error("digest ignores order")
	}
	if d := Digest(a); len(d) != 32 {
		t.Errorf("digest %q should have 32 hex digits", d)
	}
}

func TestDigestFallback(t *testing.T) {
	f := func() {}
	d1 := Digest(record{Name: "x"}, f)
	d2 := Digest(record{Name: "x"}, f)
	if d1 != d2 {
		t.Errorf("%s != %s", d1, d2)
	}
	if d1 == Digest(record{Name: "y"}, f) {
		t.Error("fallback digest ignores content")
	}
}
