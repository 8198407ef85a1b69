package syntax

import "testing"

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := newScanner("<test>", []byte(src))
	var toks []Token
	for {
		tok, err := s.next()
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		toks = append(toks, tok)
		if tok == EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	src := `( ) { } [ ] , ; : :: . -> => + - * / % = += -= *= /= %= == != < > <= >= && || ! |`
	want := []Token{
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACK, RBRACK, COMMA, SEMI, COLON, DCOLON, DOT, ARROW, FATARROW,
		PLUS, MINUS, STAR, SLASH, PERCENT,
		ASSIGN, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ,
		EQ, NE, LT, GT, LE, GE, AND, OR, NOT, BAR,
		EOF,
	}
	got := scanAll(t, src)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanKeywords(t *testing.T) {
	src := `let mut const fn return if else match while loop for break continue struct enum impl pub self Self true false nil vec`
	want := []Token{
		LET, MUT, CONST, FN, RETURN, IF, ELSE, MATCH, WHILE, LOOP, FOR, BREAK, CONTINUE,
		STRUCT, ENUM, IMPL, PUB, SELF, SELF_TYPE, TRUE, FALSE, NIL, VEC, EOF,
	}
	got := scanAll(t, src)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanNumbers(t *testing.T) {
	s := newScanner("<test>", []byte(`42 3.14 0 100.5`))
	tok, err := s.next()
	if err != nil || tok != INT || s.intVal != 42 {
		t.Fatalf("got %v %v %d, want INT 42", tok, err, s.intVal)
	}
	tok, err = s.next()
	if err != nil || tok != FLOAT || s.fltVal != 3.14 {
		t.Fatalf("got %v %v %v, want FLOAT 3.14", tok, err, s.fltVal)
	}
}

func TestScanString(t *testing.T) {
	s := newScanner("<test>", []byte(`"hello\nworld\t\"x\"\\"`))
	tok, err := s.next()
	if err != nil {
		t.Fatal(err)
	}
	if tok != STRING {
		t.Fatalf("got %s, want STRING", tok)
	}
	want := "hello\nworld\t\"x\"\\"
	if s.strVal != want {
		t.Fatalf("got %q, want %q", s.strVal, want)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	s := newScanner("<test>", []byte(`"abc`))
	if _, err := s.next(); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	s := newScanner("<test>", []byte(`/* abc`))
	if _, err := s.next(); err == nil {
		t.Fatal("expected error for unterminated block comment")
	}
}

func TestScanComments(t *testing.T) {
	src := "// line comment\n1 /* block\ncomment */ 2"
	s := newScanner("<test>", []byte(src))
	tok, err := s.next()
	if err != nil || tok != INT || s.intVal != 1 {
		t.Fatalf("got %v %v %d, want INT 1", tok, err, s.intVal)
	}
	tok, err = s.next()
	if err != nil || tok != INT || s.intVal != 2 {
		t.Fatalf("got %v %v %d, want INT 2", tok, err, s.intVal)
	}
}

func TestScanIllegalChar(t *testing.T) {
	s := newScanner("<test>", []byte(`@`))
	if _, err := s.next(); err == nil {
		t.Fatal("expected error for illegal character")
	}
}

func TestPositionTracksLines(t *testing.T) {
	s := newScanner("f.ox", []byte("a\nb"))
	s.next()
	if s.pos.Line != 1 {
		t.Errorf("got line %d, want 1", s.pos.Line)
	}
	s.next()
	if s.pos.Line != 2 {
		t.Errorf("got line %d, want 2", s.pos.Line)
	}
}
