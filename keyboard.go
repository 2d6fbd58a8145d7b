package termengine

import (
	"fmt"
	"strings"
)

// KeyCode identifies a non-printable or functional key. A KeyEvent with
// Code == KeyNone represents a plain text key; its rune lives in Rune.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Keys below this line have no CSI/SS3 legacy form and always fall
	// into the Kitty "u" encoding per spec §4.5 rule (c).
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyMenu
	KeyKP0
	KeyKP1
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd
	KeyKPEnter
	KeyKPEqual
	KeyLeftShift
	KeyLeftControl
	KeyLeftAlt
	KeyLeftSuper
	KeyLeftHyper
	KeyLeftMeta
	KeyRightShift
	KeyRightControl
	KeyRightAlt
	KeyRightSuper
	KeyRightHyper
	KeyRightMeta
	KeyISOLevel3Shift
	KeyISOLevel5Shift
)

// kittyExtendedRangeStart marks the first KeyCode value that has no legacy
// CSI/SS3 encoding and must always use the Kitty "u" form.
const kittyExtendedRangeStart = KeyF13

// kittyCodepoint returns the Private Use Area codepoint the Kitty protocol
// assigns to a functional key, used as the "keycode" field of the CSI u form.
func kittyCodepoint(code KeyCode) int {
	switch code {
	case KeyEscape:
		return 27
	case KeyEnter:
		return 13
	case KeyTab:
		return 9
	case KeyBackspace:
		return 127
	case KeyInsert:
		return 57348
	case KeyDelete:
		return 57349
	case KeyLeft:
		return 57350
	case KeyRight:
		return 57351
	case KeyUp:
		return 57352
	case KeyDown:
		return 57353
	case KeyPageUp:
		return 57354
	case KeyPageDown:
		return 57355
	case KeyHome:
		return 57356
	case KeyEnd:
		return 57357
	case KeyCapsLock:
		return 57358
	case KeyScrollLock:
		return 57359
	case KeyNumLock:
		return 57360
	case KeyPrintScreen:
		return 57361
	case KeyPause:
		return 57362
	case KeyMenu:
		return 57363
	case KeyF1:
		return 57364
	case KeyF2:
		return 57365
	case KeyF3:
		return 57366
	case KeyF4:
		return 57367
	case KeyF5:
		return 57368
	case KeyF6:
		return 57369
	case KeyF7:
		return 57370
	case KeyF8:
		return 57371
	case KeyF9:
		return 57372
	case KeyF10:
		return 57373
	case KeyF11:
		return 57374
	case KeyF12:
		return 57375
	case KeyF13:
		return 57376
	case KeyF14:
		return 57377
	case KeyF15:
		return 57378
	case KeyF16:
		return 57379
	case KeyF17:
		return 57380
	case KeyF18:
		return 57381
	case KeyF19:
		return 57382
	case KeyF20:
		return 57383
	case KeyKP0:
		return 57399
	case KeyKP1:
		return 57400
	case KeyKPDecimal:
		return 57409
	case KeyKPDivide:
		return 57410
	case KeyKPMultiply:
		return 57411
	case KeyKPSubtract:
		return 57412
	case KeyKPAdd:
		return 57413
	case KeyKPEnter:
		return 57414
	case KeyKPEqual:
		return 57415
	case KeyLeftShift:
		return 57441
	case KeyLeftControl:
		return 57442
	case KeyLeftAlt:
		return 57443
	case KeyLeftSuper:
		return 57444
	case KeyLeftHyper:
		return 57445
	case KeyLeftMeta:
		return 57446
	case KeyRightShift:
		return 57447
	case KeyRightControl:
		return 57448
	case KeyRightAlt:
		return 57449
	case KeyRightSuper:
		return 57450
	case KeyRightHyper:
		return 57451
	case KeyRightMeta:
		return 57452
	case KeyISOLevel3Shift:
		return 57453
	case KeyISOLevel5Shift:
		return 57454
	default:
		return 0
	}
}

// KeyModifier is a bitmask of held modifier keys, matching the Kitty
// keyboard protocol's modifier encoding (1=Shift, 2=Alt, 4=Ctrl, 8=Super,
// 16=Hyper, 32=Meta, 64=CapsLock, 128=NumLock).
type KeyModifier int

const (
	KeyModShift KeyModifier = 1 << iota
	KeyModAlt
	KeyModCtrl
	KeyModSuper
	KeyModHyper
	KeyModMeta
	KeyModCapsLock
	KeyModNumLock
)

// KeyEventType distinguishes press, repeat, and release per spec §4.5.
type KeyEventType int

const (
	KeyEventPress KeyEventType = 1 + iota
	KeyEventRepeat
	KeyEventRelease
)

// KittyFlags is the progressive keyboard enhancement bitset (CSI > flags u /
// CSI = flags ; mode u). Matches the Kitty protocol's own bit assignment.
type KittyFlags int

const (
	KittyDisambiguate KittyFlags = 1 << iota
	KittyReportEvents
	KittyReportAlternates
	KittyReportAllKeys
	KittyReportText
)

// KeyEvent describes one key press/repeat/release to be encoded and sent to
// the host.
type KeyEvent struct {
	Code      KeyCode
	Rune      rune // decoded text for a plain key; 0 for pure functional keys
	Shifted   rune // shifted alternate, used only when KittyReportAlternates is set
	Base      rune // base-layout alternate, used only when KittyReportAlternates is set
	Modifiers KeyModifier
	Event     KeyEventType
	Text      string // associated codepoints (IME composition, report-text mode)
}

// ctrlByte maps a rune to its C0 control byte under Ctrl, per the legacy
// mapping table in spec §4.5 (Ctrl-a -> 0x01 ... Ctrl-8 -> 0x7F).
func ctrlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	}
	switch r {
	case '@', ' ', '2':
		return 0x00, true
	case '3', '[':
		return 0x1B, true
	case '4', '\\':
		return 0x1C, true
	case '5', ']':
		return 0x1D, true
	case '6', '^':
		return 0x1E, true
	case '7', '_', '/':
		return 0x1F, true
	case '8', '?':
		return 0x7F, true
	}
	return 0, false
}

// legacyFunctionalForm returns the xterm-compatible CSI/SS3 bytes for code
// when modifiers is 0, or "" if code has no canonical unmodified legacy form.
func legacyFunctionalForm(code KeyCode, appCursorKeys bool) string {
	switch code {
	case KeyUp:
		if appCursorKeys {
			return "\x1bOA"
		}
		return "\x1b[A"
	case KeyDown:
		if appCursorKeys {
			return "\x1bOB"
		}
		return "\x1b[B"
	case KeyRight:
		if appCursorKeys {
			return "\x1bOC"
		}
		return "\x1b[C"
	case KeyLeft:
		if appCursorKeys {
			return "\x1bOD"
		}
		return "\x1b[D"
	case KeyHome:
		return "\x1b[H"
	case KeyEnd:
		return "\x1b[F"
	case KeyF1:
		return "\x1bOP"
	case KeyF2:
		return "\x1bOQ"
	case KeyF3:
		return "\x1bOR"
	case KeyF4:
		return "\x1bOS"
	case KeyF5:
		return "\x1b[15~"
	case KeyF6:
		return "\x1b[17~"
	case KeyF7:
		return "\x1b[18~"
	case KeyF8:
		return "\x1b[19~"
	case KeyF9:
		return "\x1b[20~"
	case KeyF10:
		return "\x1b[21~"
	case KeyF11:
		return "\x1b[23~"
	case KeyF12:
		return "\x1b[24~"
	case KeyInsert:
		return "\x1b[2~"
	case KeyDelete:
		return "\x1b[3~"
	case KeyPageUp:
		return "\x1b[5~"
	case KeyPageDown:
		return "\x1b[6~"
	case KeyEscape:
		return "\x1b"
	case KeyEnter:
		return "\r"
	case KeyTab:
		return "\t"
	case KeyBackspace:
		return "\x7f"
	}
	return ""
}

// functionalFinalAndModifiable reports the CSI final byte and tilde-number
// used to build the modified form ("CSI 1;M letter" or "CSI N;M ~").
func functionalFinalAndModifiable(code KeyCode) (final byte, tildeNum int, ok bool) {
	switch code {
	case KeyUp:
		return 'A', 0, true
	case KeyDown:
		return 'B', 0, true
	case KeyRight:
		return 'C', 0, true
	case KeyLeft:
		return 'D', 0, true
	case KeyHome:
		return 'H', 0, true
	case KeyEnd:
		return 'F', 0, true
	case KeyF1:
		return 'P', 0, true
	case KeyF2:
		return 'Q', 0, true
	case KeyF3:
		return 'R', 0, true
	case KeyF4:
		return 'S', 0, true
	case KeyF5:
		return '~', 15, true
	case KeyF6:
		return '~', 17, true
	case KeyF7:
		return '~', 18, true
	case KeyF8:
		return '~', 19, true
	case KeyF9:
		return '~', 20, true
	case KeyF10:
		return '~', 21, true
	case KeyF11:
		return '~', 23, true
	case KeyF12:
		return '~', 24, true
	case KeyInsert:
		return '~', 2, true
	case KeyDelete:
		return '~', 3, true
	case KeyPageUp:
		return '~', 5, true
	case KeyPageDown:
		return '~', 6, true
	}
	return 0, 0, false
}

// hasLegacyForm reports whether ev can be represented without the Kitty "u"
// encoding, per spec §4.5 rule (a)/(d).
func hasLegacyForm(ev KeyEvent) bool {
	if ev.Code >= kittyExtendedRangeStart {
		return false
	}
	if ev.Code == KeyNone {
		// Plain text: always representable by its own bytes or a Ctrl/Alt
		// prefixed variant, unless combined with Super/Hyper/Meta which the
		// legacy path cannot express at all.
		return ev.Modifiers&(KeyModSuper|KeyModHyper|KeyModMeta) == 0
	}
	if ev.Code == KeyEnter || ev.Code == KeyTab || ev.Code == KeyBackspace {
		// Rule (d): these have a legacy form only with no modifiers and a
		// plain press.
		return ev.Modifiers == 0 && ev.Event == KeyEventPress
	}
	_, _, ok := functionalFinalAndModifiable(ev.Code)
	return ok || ev.Code == KeyEscape
}

// EncodeKey produces the byte sequence to send the host for a single key
// event under the given progressive-enhancement flags, per spec §4.5.
func EncodeKey(flags KittyFlags, ev KeyEvent, appCursorKeys bool) []byte {
	useKittyForm := flags&KittyReportAllKeys != 0 ||
		ev.Code >= kittyExtendedRangeStart ||
		(flags&KittyDisambiguate != 0 && !hasLegacyForm(ev)) ||
		((ev.Code == KeyEnter || ev.Code == KeyTab || ev.Code == KeyBackspace) &&
			(ev.Modifiers != 0 || (flags&KittyReportEvents != 0 && ev.Event != KeyEventPress)))

	if useKittyForm {
		return []byte(encodeKittyForm(flags, ev))
	}

	if ev.Event != KeyEventPress {
		// Without report-events, releases/repeats of keys with a legacy
		// form produce no output: legacy protocols have no release byte.
		return nil
	}

	if ev.Code == KeyNone {
		return encodeLegacyText(ev)
	}

	legacy := legacyFunctionalForm(ev.Code, appCursorKeys)
	if ev.Modifiers == 0 {
		return []byte(legacy)
	}
	if final, tilde, ok := functionalFinalAndModifiable(ev.Code); ok {
		m := int(ev.Modifiers) + 1
		if tilde != 0 {
			return []byte(fmt.Sprintf("\x1b[%d;%d%c", tilde, m, final))
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", m, final))
	}
	return []byte(legacy)
}

// encodeLegacyText encodes a plain text key with legacy Alt/Ctrl prefixing.
func encodeLegacyText(ev KeyEvent) []byte {
	var out []byte
	r := ev.Rune
	if ev.Modifiers&KeyModCtrl != 0 {
		if b, ok := ctrlByte(r); ok {
			if ev.Modifiers&KeyModAlt != 0 {
				out = append(out, 0x1b)
			}
			return append(out, b)
		}
	}
	if ev.Modifiers&KeyModAlt != 0 {
		out = append(out, 0x1b)
	}
	return append(out, []byte(string(r))...)
}

// encodeKittyForm builds the "CSI keycode[:shifted[:base]];modifiers[:event];text u"
// sequence per spec §4.5.
func encodeKittyForm(flags KittyFlags, ev KeyEvent) string {
	keycode := int(ev.Rune)
	if ev.Code != KeyNone {
		keycode = kittyCodepoint(ev.Code)
	}

	keyField := fmt.Sprintf("%d", keycode)
	if flags&KittyReportAlternates != 0 && (ev.Shifted != 0 || ev.Base != 0) {
		shifted := ""
		if ev.Shifted != 0 {
			shifted = fmt.Sprintf("%d", ev.Shifted)
		}
		if ev.Base != 0 {
			keyField = fmt.Sprintf("%s:%s:%d", keyField, shifted, ev.Base)
		} else {
			keyField = fmt.Sprintf("%s:%s", keyField, shifted)
		}
	}

	modField := ""
	needModField := ev.Modifiers != 0 || (flags&KittyReportEvents != 0 && ev.Event != KeyEventPress)
	if needModField {
		modField = fmt.Sprintf("%d", int(ev.Modifiers)+1)
		if flags&KittyReportEvents != 0 && ev.Event != KeyEventPress {
			modField = fmt.Sprintf("%s:%d", modField, int(ev.Event))
		}
	}

	textField := ""
	if flags&KittyReportText != 0 && ev.Text != "" {
		codepoints := make([]string, 0, len(ev.Text))
		for _, r := range ev.Text {
			if isControlCodepoint(r) {
				continue
			}
			codepoints = append(codepoints, fmt.Sprintf("%d", r))
		}
		if len(codepoints) > 0 {
			textField = strings.Join(codepoints, ":")
		}
	}

	body := keyField
	if modField != "" || textField != "" {
		body += ";" + modField
	}
	if textField != "" {
		body += ";" + textField
	}
	return "\x1b[" + body + "u"
}

// isControlCodepoint reports whether r falls in the C0 or C1 control ranges,
// which are filtered from the Kitty "u" form's text-codepoints field.
func isControlCodepoint(r rune) bool {
	return (r >= 0x00 && r <= 0x1F) || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}
