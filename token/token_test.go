package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		line      int32
		column    int
		wantLex   string
	}{
		{name: "Create ASSIGN token", tokenType: ASSIGN, line: 1, column: 4, wantLex: "="},
		{name: "Create MULT token", tokenType: MULT, line: 2, column: 0, wantLex: "*"},
		{name: "Create LESS_EQUAL token", tokenType: LESS_EQUAL, line: 0, column: 7, wantLex: "<="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.line, tt.column)
			if got.TokenType != tt.tokenType {
				t.Errorf("TokenType = %v, want %v", got.TokenType, tt.tokenType)
			}
			if got.Lexeme != tt.wantLex {
				t.Errorf("Lexeme = %q, want %q", got.Lexeme, tt.wantLex)
			}
			if got.Line != tt.line || got.Column != tt.column {
				t.Errorf("position = (%d,%d), want (%d,%d)", got.Line, got.Column, tt.line, tt.column)
			}
			if got.Literal != nil {
				t.Errorf("expected nil Literal, got %v", got.Literal)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(IDENTIFIER, nil, "myVar", 3, 10)
	want := Token{TokenType: IDENTIFIER, Lexeme: "myVar", Literal: nil, Line: 3, Column: 10}
	if got != want {
		t.Errorf("CreateLiteralToken() = %+v, want %+v", got, want)
	}

	numTok := CreateLiteralToken(INT, int64(42), "42", 0, 0)
	if numTok.Literal != int64(42) {
		t.Errorf("expected Literal 42, got %v", numTok.Literal)
	}
}

func TestTokenString(t *testing.T) {
	tok := CreateLiteralToken(INT, int64(123), "123", 3, 10)
	want := `Token {Type: INT, Value: "123"}`
	if tok.String() != want {
		t.Errorf("String() = %q, want %q", tok.String(), want)
	}
}
