package termengine

import "testing"

func TestSelectWordOrExpression(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("foo.bar baz")

	term.SelectWordOrExpression(Position{Row: 0, Col: 1})
	sel := term.GetSelection()
	if sel.Start.Col != 0 || sel.End.Col != 6 {
		t.Errorf("expected word range [0,6], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
	if got, want := term.GetSelectedText(), "foo.bar"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSelectWordOrExpressionIdempotent(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("hello world")

	term.SelectWordOrExpression(Position{Row: 0, Col: 2})
	first := term.GetSelection()

	term.SelectWordOrExpression(Position{Row: 0, Col: 2})
	second := term.GetSelection()

	if first.Start != second.Start || first.End != second.End {
		t.Errorf("expected identical range, got %+v and %+v", first, second)
	}
}

func TestSelectWordOrExpressionSpaceRun(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("a    b")

	term.SelectWordOrExpression(Position{Row: 0, Col: 2})
	sel := term.GetSelection()
	if sel.Start.Col != 1 || sel.End.Col != 4 {
		t.Errorf("expected space run [1,4], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
}

func TestSelectWordOrExpressionBracketForward(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("f(a, (b), c)")

	term.SelectWordOrExpression(Position{Row: 0, Col: 1}) // the '(' right after f
	sel := term.GetSelection()
	if sel.Start.Col != 1 || sel.End.Col != 11 {
		t.Errorf("expected bracket span [1,11], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
}

func TestSelectWordOrExpressionBracketBackward(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("f(a, (b), c)")

	term.SelectWordOrExpression(Position{Row: 0, Col: 11}) // the closing ')'
	sel := term.GetSelection()
	if sel.Start.Col != 1 || sel.End.Col != 11 {
		t.Errorf("expected bracket span [1,11], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
}

func TestSelectAllText(t *testing.T) {
	term := New(WithSize(3, 10))
	term.SelectAllText()
	sel := term.GetSelection()
	if sel.Start != (Position{Row: 0, Col: 0}) {
		t.Errorf("expected start at origin, got %+v", sel.Start)
	}
	if sel.End != (Position{Row: 2, Col: 9}) {
		t.Errorf("expected end at bottom-right, got %+v", sel.End)
	}
}

func TestSelectRowAcrossWrap(t *testing.T) {
	term := New(WithSize(5, 80))
	buf := term.activeBuffer
	buf.SetWrapped(1, true)

	term.SelectRow(1)
	sel := term.GetSelection()
	if sel.Start.Row != 0 || sel.End.Row != 1 {
		t.Errorf("expected rows [0,1], got [%d,%d]", sel.Start.Row, sel.End.Row)
	}
}

func TestShiftExtendSwapsAnchor(t *testing.T) {
	term := New(WithSize(24, 80))
	term.SetSelection(Position{Row: 0, Col: 5}, Position{Row: 0, Col: 5})
	term.selection.PivotStart = Position{Row: 0, Col: 5}
	term.selection.HasPivot = true

	term.ShiftExtend(Position{Row: 0, Col: 1})
	sel := term.GetSelection()
	if sel.Start.Col != 1 || sel.End.Col != 5 {
		t.Errorf("expected swapped range [1,5], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
}

func TestDragExtend(t *testing.T) {
	term := New(WithSize(24, 80))
	term.DragExtend(Position{Row: 0, Col: 3}) // first call establishes anchor
	term.DragExtend(Position{Row: 0, Col: 8})

	sel := term.GetSelection()
	if sel.Start.Col != 3 || sel.End.Col != 8 {
		t.Errorf("expected [3,8], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
}

func TestPivotExtendKeepsWordWhole(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("alpha beta gamma")

	term.SelectWordOrExpression(Position{Row: 0, Col: 1}) // "alpha"
	term.PivotExtend(Position{Row: 0, Col: 13})           // inside "gamma"

	sel := term.GetSelection()
	if sel.Start.Col != 0 {
		t.Errorf("expected pivot start to stay at 0, got %d", sel.Start.Col)
	}
	if got, want := term.GetSelectedText(), "alpha beta gamma"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetTextSoftWrapConcatenation(t *testing.T) {
	term := New(WithSize(5, 5))
	buf := term.activeBuffer
	writeRow := func(row int, s string) {
		for col, r := range s {
			cell := buf.Cell(row, col)
			cell.Char = r
		}
	}
	writeRow(0, "Hello")
	writeRow(1, "World")
	buf.SetWrapped(1, true)

	text := term.GetText(Position{Row: 0, Col: 0}, Position{Row: 1, Col: 4})
	if got, want := text, "HelloWorld"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetTextSuppressesTrailingBlankLines(t *testing.T) {
	term := New(WithSize(4, 10))
	term.WriteString("first")

	text := term.GetText(Position{Row: 0, Col: 0}, Position{Row: 3, Col: 9})
	if got, want := text, "first"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetTextPreservesInternalBlankRuns(t *testing.T) {
	term := New(WithSize(4, 10))
	buf := term.activeBuffer
	buf.Cell(0, 0).Char = 'A'
	buf.Cell(2, 0).Char = 'B'

	text := term.GetText(Position{Row: 0, Col: 0}, Position{Row: 2, Col: 9})
	if got, want := text, "A\n\nB"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
