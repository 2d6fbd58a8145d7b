package termengine

import (
	"bytes"
	"strings"
	"testing"
)

func TestDECSETReverseWrap(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?45h")
	if !term.HasMode(ModeReverseWrap) {
		t.Fatal("expected mode 45 to set ModeReverseWrap")
	}

	term.WriteString("\x1b[?45l")
	if term.HasMode(ModeReverseWrap) {
		t.Fatal("expected mode 45 reset to clear ModeReverseWrap")
	}
}

func TestDECSETMixedParameterList(t *testing.T) {
	term := New(WithSize(24, 80))

	// 1016 is handled by the extension scanner, 1006 by the decoder; a
	// mixed list must reach both.
	term.WriteString("\x1b[?1006;1016h")

	if !term.HasMode(ModeSGRMouse) {
		t.Error("expected mode 1006 to set ModeSGRMouse")
	}
	if !term.HasMode(ModeSGRPixelMouse) {
		t.Error("expected mode 1016 to set ModeSGRPixelMouse")
	}
}

func TestDECSETSplitAcrossWrites(t *testing.T) {
	term := New(WithSize(24, 80))

	// A sequence split across feed calls must still be recognized.
	term.WriteString("\x1b[?10")
	term.WriteString("15h")

	if !term.HasMode(ModeURXVTMouse) {
		t.Error("expected mode 1015 to set ModeURXVTMouse")
	}
}

func TestDECSETAltScreen47(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("primary")
	term.WriteString("\x1b[?47h")
	if !term.IsAlternateScreen() {
		t.Fatal("expected mode 47 to switch to alternate screen")
	}

	term.WriteString("\x1b[?47l")
	if term.IsAlternateScreen() {
		t.Fatal("expected mode 47 reset to restore primary screen")
	}
	if got := term.LineContent(0); got != "primary" {
		t.Errorf("expected primary content preserved, got %q", got)
	}
}

func TestDECRQMReportsModeState(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1b[?2004h")
	term.WriteString("\x1b[?2004$p")
	if got := buf.String(); got != "\x1b[?2004;1$y" {
		t.Errorf("expected set reply, got %q", got)
	}

	buf.Reset()
	term.WriteString("\x1b[?2004l")
	term.WriteString("\x1b[?2004$p")
	if got := buf.String(); got != "\x1b[?2004;2$y" {
		t.Errorf("expected reset reply, got %q", got)
	}

	buf.Reset()
	term.WriteString("\x1b[?9999$p")
	if got := buf.String(); got != "\x1b[?9999;0$y" {
		t.Errorf("expected unknown reply, got %q", got)
	}
}

func TestDECRQMAnsiInsertMode(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1b[4h")
	term.WriteString("\x1b[4$p")

	if got := buf.String(); got != "\x1b[4;1$y" {
		t.Errorf("expected ANSI insert mode set reply, got %q", got)
	}
}

func TestDECRQCRAChecksum(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	// Rectangle (top=1,left=1,bot=1,right=3) holds "ABC"; the checksum is
	// 0x41+0x42+0x43 = 0x00c6.
	term.WriteString("ABC")
	term.WriteString("\x1b[1;0;1;1;1;3*y")

	want := "\x1bP1!~00c6\x1b\\"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDECRQCRARefusedWhenUntrusted(t *testing.T) {
	term := New(WithSize(24, 80), WithTrust(func() bool { return false }))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("ABC")
	term.WriteString("\x1b[1;0;1;1;1;3*y")

	if buf.Len() != 0 {
		t.Errorf("expected no checksum reply for untrusted host, got %q", buf.String())
	}
}

func TestDECRQSSScrollRegion(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1b[5;20r")
	term.WriteString("\x1bP$qr\x1b\\")

	want := "\x1bP1$r5;20r\x1b\\"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDECRQSSSGRRoundTrip(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1b[1;4;38;2;10;20;30m")
	term.WriteString("\x1bP$qm\x1b\\")

	reply := buf.String()
	if !strings.HasPrefix(reply, "\x1bP1$r") || !strings.HasSuffix(reply, "m\x1b\\") {
		t.Fatalf("malformed DECRQSS reply %q", reply)
	}

	// Replaying the reported SGR must reproduce the attribute.
	body := strings.TrimSuffix(strings.TrimPrefix(reply, "\x1bP1$r"), "\x1b\\")
	fresh := New(WithSize(24, 80))
	fresh.WriteString("\x1b[" + body + "X")

	cell := fresh.Cell(0, 0)
	if cell == nil || !cell.HasFlag(CellFlagBold) || !cell.HasFlag(CellFlagUnderline) {
		t.Error("replayed SGR lost bold/underline")
	}
}

func TestDECRQSSUnknownSetting(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1bP$qz\x1b\\")

	want := "\x1bP0$r\x1b\\"
	if got := buf.String(); got != want {
		t.Errorf("expected invalid reply %q, got %q", want, got)
	}
}

func TestDECSLRMSetsMargins(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1b[?69h")
	term.WriteString("\x1b[10;40s")
	term.WriteString("\x1bP$qs\x1b\\")

	want := "\x1bP1$r10;40s\x1b\\"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSaveCursorStillWorksWithoutMarginMode(t *testing.T) {
	term := New(WithSize(24, 80))

	// Without DECLRMM, CSI s belongs to the decoder (save cursor, the
	// same slot DECSC/DECRC use).
	term.WriteString("\x1b[5;10H\x1b[s\x1b[HX\x1b8")

	row, col := term.CursorPos()
	if row != 4 || col != 9 {
		t.Errorf("expected cursor restored to (4, 9), got (%d, %d)", row, col)
	}
}

func TestWrapRespectsRightMargin(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?69h")
	term.WriteString("\x1b[5;10s") // margins: cols 4..9 (0-based)
	term.WriteString("\x1b[1;5H")
	term.WriteString("ABCDEFGH")

	// Six cells fit on row 0; the rest wraps to the margin's left edge.
	if got := term.LineContent(0); !strings.Contains(got, "ABCDEF") {
		t.Errorf("row 0 = %q, expected ABCDEF within margins", got)
	}
	cell := term.Cell(1, 4)
	if cell == nil || cell.Char != 'G' {
		t.Errorf("expected wrap to continue at margin left with 'G'")
	}
}

func TestCarriageReturnStopsAtLeftMargin(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?69h")
	term.WriteString("\x1b[5;40s")
	term.WriteString("\x1b[1;10H\r")

	_, col := term.CursorPos()
	if col != 4 {
		t.Errorf("expected CR to stop at left margin 4, got %d", col)
	}
}

func TestDECICInsertsColumns(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABCDEF")
	term.WriteString("\x1b[1;3H") // cursor at column 2
	term.WriteString("\x1b[2'}")

	if got := term.LineContent(0); !strings.HasPrefix(got, "AB  CD") {
		t.Errorf("expected two blank columns inserted, got %q", got)
	}
}

func TestDECDCDeletesColumns(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABCDEF")
	term.WriteString("\x1b[1;3H")
	term.WriteString("\x1b[2'~")

	if got := term.LineContent(0); !strings.HasPrefix(got, "ABEF") {
		t.Errorf("expected columns deleted, got %q", got)
	}
}

func TestScrollUpWithinMargins(t *testing.T) {
	term := New(WithSize(4, 10))

	term.WriteString("AAAAAAAAAA\r\nBBBBBBBBBB\r\nCCCCCCCCCC")
	term.WriteString("\x1b[?69h")
	term.WriteString("\x1b[3;8s") // margins: cols 2..7
	term.WriteString("\x1b[1S")

	// Columns outside the margins keep row 0's content; inside shifts up.
	if cell := term.Cell(0, 0); cell == nil || cell.Char != 'A' {
		t.Error("expected column outside margins untouched")
	}
	if cell := term.Cell(0, 2); cell == nil || cell.Char != 'B' {
		t.Errorf("expected margin column shifted up to 'B'")
	}
}

func TestReverseWrapBackspace(t *testing.T) {
	term := New(WithSize(4, 10))

	term.WriteString("\x1b[?45h")
	term.WriteString("ABCDEFGHIJK") // wraps onto row 1
	term.WriteString("\b\b")

	row, col := term.CursorPos()
	if row != 0 || col != 9 {
		t.Errorf("expected reverse wrap to (0, 9), got (%d, %d)", row, col)
	}
}

func TestC1TransmitFraming(t *testing.T) {
	term := New(WithSize(24, 80))
	var buf bytes.Buffer
	term.SetResponseProvider(&buf)

	term.WriteString("\x1b G")
	term.WriteString("\x1b[?2004$p")
	if got := buf.String(); got != "\x9b?2004;2$y" {
		t.Errorf("expected 8-bit CSI framing, got %q", got)
	}

	buf.Reset()
	term.WriteString("\x1b F")
	term.WriteString("\x1b[?2004$p")
	if got := buf.String(); got != "\x1b[?2004;2$y" {
		t.Errorf("expected 7-bit CSI framing restored, got %q", got)
	}
}

func TestDECCOLMResizesWhenAllowed(t *testing.T) {
	term := New(WithSize(24, 80))

	// Without mode 40 the column flag toggles but the size is untouched.
	term.WriteString("\x1b[?3h")
	if term.Cols() != 80 {
		t.Fatalf("expected 80 columns without mode 40, got %d", term.Cols())
	}
	term.WriteString("\x1b[?3l")

	term.WriteString("\x1b[?40h")
	term.WriteString("\x1b[?3h")
	if term.Cols() != 132 {
		t.Fatalf("expected 132 columns, got %d", term.Cols())
	}
	term.WriteString("\x1b[?3l")
	if term.Cols() != 80 {
		t.Fatalf("expected 80 columns restored, got %d", term.Cols())
	}
}

func TestOriginModeCUPRelativeToMargins(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?69h")
	term.WriteString("\x1b[11;40s") // left margin col 10 (0-based)
	term.WriteString("\x1b[5;20r")  // scroll region rows 4..19 (0-based)
	term.WriteString("\x1b[?6h")
	term.WriteString("\x1b[1;1H")

	row, col := term.CursorPos()
	if row != 4 || col != 10 {
		t.Errorf("expected origin home at (4, 10), got (%d, %d)", row, col)
	}
}

func TestExtensionScannerPassesPlainTextThrough(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("plain \x1b[1mbold\x1b[0m tail")

	if got := term.LineContent(0); got != "plain bold tail" {
		t.Errorf("expected pass-through text, got %q", got)
	}
	cell := term.Cell(0, 6)
	if cell == nil || !cell.HasFlag(CellFlagBold) {
		t.Error("expected decoder-owned SGR to still apply")
	}
}

func TestEraseCarriesCurrentBackground(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello, world!")
	term.WriteString("\x1b[41m")        // red background
	term.WriteString("\x1b[1;8H\x1b[K") // erase from column 7 rightward

	// Columns left of the cursor keep their characters and default
	// background.
	for i, want := range "Hello, " {
		cell := term.Cell(0, i)
		if cell == nil || cell.Char != want {
			t.Fatalf("column %d changed, got %q", i, cell.Char)
		}
	}
	if bg, ok := term.Cell(0, 0).Bg.(*NamedColor); !ok || bg.Name != NamedColorBackground {
		t.Error("expected untouched cell to keep the default background")
	}

	// Erased cells are blank but carry the active background.
	erased := term.Cell(0, 40)
	if erased == nil || erased.Char != ' ' {
		t.Fatal("expected erased cell to be blank")
	}
	if bg, ok := erased.Bg.(*NamedColor); !ok || bg.Name == NamedColorBackground {
		t.Errorf("expected erased cell to carry the red background, got %v", erased.Bg)
	}
	if fg, ok := erased.Fg.(*NamedColor); !ok || fg.Name != NamedColorForeground {
		t.Error("expected erased cell to keep the default foreground")
	}
}
