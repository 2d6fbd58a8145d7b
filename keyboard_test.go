package termengine

import "testing"

func TestEncodeKeyLegacyText(t *testing.T) {
	ev := KeyEvent{Rune: 'a', Event: KeyEventPress}
	if got, want := string(EncodeKey(0, ev, false)), "a"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyCtrlLetter(t *testing.T) {
	ev := KeyEvent{Rune: 'a', Modifiers: KeyModCtrl, Event: KeyEventPress}
	got := EncodeKey(0, ev, false)
	if len(got) != 1 || got[0] != 0x01 {
		t.Errorf("got %v, want [0x01]", got)
	}
}

func TestEncodeKeyCtrl8IsDel(t *testing.T) {
	ev := KeyEvent{Rune: '8', Modifiers: KeyModCtrl, Event: KeyEventPress}
	got := EncodeKey(0, ev, false)
	if len(got) != 1 || got[0] != 0x7F {
		t.Errorf("got %v, want [0x7F]", got)
	}
}

func TestEncodeKeyAltPrefixesEscape(t *testing.T) {
	ev := KeyEvent{Rune: 'x', Modifiers: KeyModAlt, Event: KeyEventPress}
	if got, want := string(EncodeKey(0, ev, false)), "\x1bx"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyArrowApplicationMode(t *testing.T) {
	ev := KeyEvent{Code: KeyUp, Event: KeyEventPress}
	if got, want := string(EncodeKey(0, ev, true)), "\x1bOA"; got != want {
		t.Errorf("app mode: got %q, want %q", got, want)
	}
	if got, want := string(EncodeKey(0, ev, false)), "\x1b[A"; got != want {
		t.Errorf("normal mode: got %q, want %q", got, want)
	}
}

func TestEncodeKeyArrowWithModifier(t *testing.T) {
	ev := KeyEvent{Code: KeyUp, Modifiers: KeyModShift, Event: KeyEventPress}
	if got, want := string(EncodeKey(0, ev, false)), "\x1b[1;2A"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyF5Tilde(t *testing.T) {
	ev := KeyEvent{Code: KeyF5, Event: KeyEventPress}
	if got, want := string(EncodeKey(0, ev, false)), "\x1b[15~"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	ev.Modifiers = KeyModCtrl
	if got, want := string(EncodeKey(0, ev, false)), "\x1b[15;5~"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyKittyDisambiguateForcesUForm(t *testing.T) {
	ev := KeyEvent{Rune: 'a', Modifiers: KeyModSuper, Event: KeyEventPress}
	got := string(EncodeKey(KittyDisambiguate, ev, false))
	if got != "\x1b[97;9u" {
		t.Errorf("got %q, want %q", got, "\x1b[97;9u")
	}
}

func TestEncodeKeyPlainLetterStaysLegacyUnderDisambiguate(t *testing.T) {
	ev := KeyEvent{Rune: 'a', Event: KeyEventPress}
	if got, want := string(EncodeKey(KittyDisambiguate, ev, false)), "a"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyReportAllKeysForcesUForm(t *testing.T) {
	ev := KeyEvent{Code: KeyUp, Event: KeyEventPress}
	got := string(EncodeKey(KittyReportAllKeys, ev, false))
	if got != "\x1b[57352u" {
		t.Errorf("got %q, want %q", got, "\x1b[57352u")
	}
}

func TestEncodeKeyReportEventsAppendsEventType(t *testing.T) {
	ev := KeyEvent{Code: KeyUp, Event: KeyEventRelease}
	got := string(EncodeKey(KittyReportAllKeys|KittyReportEvents, ev, false))
	if got != "\x1b[57352;1:3u" {
		t.Errorf("got %q, want %q", got, "\x1b[57352;1:3u")
	}
}

func TestEncodeKeyFunctionalRangeAlwaysUForm(t *testing.T) {
	ev := KeyEvent{Code: KeyF13, Event: KeyEventPress}
	got := string(EncodeKey(0, ev, false))
	if got != "\x1b[57376u" {
		t.Errorf("got %q, want %q", got, "\x1b[57376u")
	}
}

func TestEncodeKeyEnterPlainStaysLegacy(t *testing.T) {
	ev := KeyEvent{Code: KeyEnter, Event: KeyEventPress}
	if got, want := string(EncodeKey(KittyDisambiguate, ev, false)), "\r"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyEnterWithModifierForcesUForm(t *testing.T) {
	ev := KeyEvent{Code: KeyEnter, Modifiers: KeyModCtrl, Event: KeyEventPress}
	got := string(EncodeKey(KittyDisambiguate, ev, false))
	if got != "\x1b[13;5u" {
		t.Errorf("got %q, want %q", got, "\x1b[13;5u")
	}
}

func TestEncodeKeyTextCodepointsFilterControls(t *testing.T) {
	ev := KeyEvent{Rune: 'a', Modifiers: KeyModSuper, Event: KeyEventPress, Text: "a\x01b"}
	got := string(EncodeKey(KittyDisambiguate|KittyReportText, ev, false))
	if got != "\x1b[97;9;97:98u" {
		t.Errorf("got %q, want %q", got, "\x1b[97;9;97:98u")
	}
}
