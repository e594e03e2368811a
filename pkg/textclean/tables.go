package textclean

// overrideTable holds the curated fold replacements for characters whose
// Unicode-decomposition-based transliteration (see normalize.go) would
// either produce nothing usable or produce something misleading — mostly
// punctuation that a pure NFD decompose-and-strip-marks pass leaves
// untouched because it carries no combining-mark decomposition at all.
//
// This table is hand-curated rather than ported from any single upstream
// source: the reference project's own override table turned out, on
// inspection, to be corrupted by a Latin-1-as-UTF-8 double-encoding bug
// (the keys and values are both garbled), so reproducing it byte-for-byte
// would just be reproducing that bug. The entries below cover the same
// intent — punctuation and symbols with no natural ASCII decomposition —
// with correct codepoints.
var overrideTable = map[rune]string{
	'—': "--",  // em dash
	'–': "-",   // en dash
	'…': "...", // horizontal ellipsis
	'°': "deg", // degree sign
	'«': "<<",  // left-pointing double angle quotation mark
	'»': ">>",  // right-pointing double angle quotation mark
	'‰': "%0",  // per mille sign
	'′': "'",   // prime
	'″': "\"",  // double prime
	'№': "No",  // numero sign
	'•': "*",   // bullet
	'×': "x",   // multiplication sign
	'÷': "/",   // division sign
	'€': "EUR",
	'£': "GBP",
	'¥': "YEN",
	'©': "(c)",
	'®': "(r)",
	'™': "(tm)",
	' ': " ", // no-break space
	'​': "",  // zero width space
	'﻿': "",  // byte order mark / zero width no-break space

	// These Latin letters carry no NFD combining-mark decomposition, so the
	// fallback pass in normalize.go would otherwise fold them to empty instead of
	// transliterating them.
	'ø': "o", 'Ø': "O",
	'ł': "l", 'Ł': "L",
	'đ': "d", 'Đ': "D",
	'þ': "th", 'Þ': "Th",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ß': "ss",
}

// controlRemap is a 128-entry table indexed by ASCII codepoint. It is the
// final pass applied to every byte of an ASCII-transliterated string:
// control characters fold to empty, horizontal tab folds to a single
// space, printable ASCII and newline pass through unchanged.
var controlRemap [128]string

func init() {
	for i := 0; i < 32; i++ {
		controlRemap[i] = ""
	}
	controlRemap['\t'] = " "
	controlRemap['\n'] = "\n"
	for i := 32; i <= 126; i++ {
		controlRemap[i] = string(rune(i))
	}
	controlRemap[127] = "" // DEL
}

const (
	maxCodepoint    = 0xEFFFF
	surrogateLow    = 0xD800
	surrogateHigh   = 0xDFFF
)
