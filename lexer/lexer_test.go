package lexer

import (
	"venom/token"
	"reflect"
	"testing"
)


// typesAndLexemes strips position information from a token slice, since
// these tests only care about which tokens were produced, not where.
func typesAndLexemes(tokens []token.Token) []token.Token {
	stripped := make([]token.Token, len(tokens))
	for i, tok := range tokens {
		stripped[i] = token.Token{TokenType: tok.TokenType, Lexeme: tok.Lexeme, Literal: tok.Literal}
	}
	return stripped
}

func runTestSuccess(t *testing.T, scanner *Lexer, expected []token.Token) {

	t.Run("ValidTokenScan", func(t *testing.T) {
		got, err := scanner.Scan()
		if err != nil {
			t.Errorf("scanner.Scan() raised an error: %v", err)
		}

		if !reflect.DeepEqual(typesAndLexemes(got), typesAndLexemes(expected)) {
			t.Errorf("scanner.Scan() = %v, want %v", got, expected)
		}
	})
}

func TestOperatorsSuccess(t *testing.T) {
	expected := []token.Token{
		token.CreateToken(token.EQUAL_EQUAL, 0, 0),
		token.CreateToken(token.DIV, 0, 0),
		token.CreateToken(token.ASSIGN, 0, 0),
		token.CreateToken(token.MULT, 0, 0),
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.LARGER, 0, 0),
		token.CreateToken(token.SUB, 0, 0),
		token.CreateToken(token.LESS, 0, 0),
		token.CreateToken(token.NOT_EQUAL, 0, 0),
		token.CreateToken(token.LESS_EQUAL, 0, 0),
		token.CreateToken(token.LARGER_EQUAL, 0, 0),
		token.CreateToken(token.BANG, 0, 0),
		token.CreateToken(token.BANG, 0, 0),
		token.CreateToken(token.EOF, 0, 0),
	}
	scanner := New("==/=*+>-<!=<=>=!!")
	runTestSuccess(t, scanner, expected)

}

func TestScanSuccess(t *testing.T) {
	expected := []token.Token{
		token.CreateToken(token.LPA, 0, 0),
		token.CreateToken(token.RPA, 0, 0),
		token.CreateToken(token.LCUR, 0, 0),
		token.CreateToken(token.RCUR, 0, 0),
		token.CreateToken(token.MULT, 0, 0),
		token.CreateToken(token.MULT, 0, 0),
		token.CreateToken(token.SEMICOLON, 0, 0),
		token.CreateToken(token.ADD, 0, 0),
		token.CreateToken(token.NOT_EQUAL, 0, 0),
		token.CreateToken(token.LESS_EQUAL, 0, 0),
		token.CreateToken(token.EOF, 0, 0),
	}

	scanner := New("(){}**;+!=<=")
	runTestSuccess(t, scanner, expected)

}
