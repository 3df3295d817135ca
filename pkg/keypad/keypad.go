// Package keypad maps host keyboard keys onto the 16-key hexadecimal keypad.
package keypad

import "unicode"

// Layout lists the host key for every keypad index, in index order. The four
// rows 1234 QWER ASDF ZXCV form a 4x4 block on a QWERTY keyboard.
const Layout = "1234QWERASDFZXCV"

// Size is the number of keypad keys.
const Size = len(Layout)

// IndexOf returns the keypad index bound to the host key r. Letters match
// case-insensitively.
func IndexOf(r rune) (int, bool) {
	r = unicode.ToUpper(r)
	for i, k := range Layout {
		if k == r {
			return i, true
		}
	}
	return 0, false
}

// KeyAt returns the host key bound to keypad index i.
func KeyAt(i int) (rune, bool) {
	if i < 0 || i >= Size {
		return 0, false
	}
	return rune(Layout[i]), true
}
