package runtime

import (
	"errors"
	"strconv"
	"testing"

	"mlang/interpreter-go/pkg/ast"
)

func TestTruthiness(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want int64
	}{
		{"unit", UnitValue{}, 0},
		{"zero", IntegerValue{Val: 0}, 0},
		{"negative", IntegerValue{Val: -3}, -3},
		{"positive", IntegerValue{Val: 9}, 9},
		{"empty string", StringValue{Val: ""}, 0},
		{"numeric looking string", StringValue{Val: "0"}, 1},
		{"text", StringValue{Val: "abc"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Truthiness(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestTruthinessRejectsFunctions(t *testing.T) {
	fn := &FunctionValue{Name: "f", Body: ast.Unit()}
	_, err := Truthiness(fn)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestParseIntegerIdempotentOnIntegers(t *testing.T) {
	for _, n := range []int64{-5, 0, 42} {
		once, err := ParseInteger(IntegerValue{Val: n})
		if err != nil {
			t.Fatalf("parse %d: %v", n, err)
		}
		twice, err := ParseInteger(once)
		if err != nil || twice != once || once.Val != n {
			t.Fatalf("expected %d to convert to itself, got %v then %v (%v)", n, once, twice, err)
		}
	}
	unit, err := ParseInteger(UnitValue{})
	if err != nil || unit.Val != 0 {
		t.Fatalf("unit should convert to 0, got %v (%v)", unit, err)
	}
}

func TestParseIntegerStrings(t *testing.T) {
	got, err := ParseInteger(StringValue{Val: "-120"})
	if err != nil || got.Val != -120 {
		t.Fatalf("expected -120, got %v (%v)", got, err)
	}
	_, err = ParseInteger(StringValue{Val: "12abc"})
	var conv *ConversionError
	if !errors.As(err, &conv) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if conv.Source != "12abc" {
		t.Fatalf("expected source text to be preserved, got %q", conv.Source)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Fatalf("expected wrapped strconv syntax error, got %v", err)
	}
}

func TestParseIntegerRejectsFunctions(t *testing.T) {
	_, err := ParseInteger(&FunctionValue{Name: "f"})
	if ErrorKindOf(err) != "TypeMismatch" {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestStringify(t *testing.T) {
	cases := map[string]Value{
		"unit":  UnitValue{},
		"-17":   IntegerValue{Val: -17},
		"héllo": StringValue{Val: "héllo"},
	}
	for want, in := range cases {
		got, err := Stringify(in)
		if err != nil {
			t.Fatalf("stringify %#v: %v", in, err)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if _, err := Stringify(&FunctionValue{Name: "f"}); ErrorKindOf(err) != "TypeMismatch" {
		t.Fatalf("expected TypeMismatch stringifying a function, got %v", err)
	}
}

func TestNewFunctionValueRejectsDuplicateParams(t *testing.T) {
	_, err := NewFunctionValue(ast.Fn("f", []string{"a", "a"}, ast.Unit()))
	if ErrorKindOf(err) != "InvalidDeclaration" {
		t.Fatalf("expected InvalidDeclaration, got %v", err)
	}
	fn, err := NewFunctionValue(ast.Fn("g", []string{"a", "b"}, ast.Unit()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Arity() != 2 || fn.Kind() != KindFunction {
		t.Fatalf("unexpected function value %#v", fn)
	}
}

func TestArityMismatchDirection(t *testing.T) {
	few := &ArityMismatchError{Name: "f", Expected: 2, Actual: 1}
	many := &ArityMismatchError{Name: "f", Expected: 0, Actual: 3}
	if few.Direction() != "too few" || many.Direction() != "too many" {
		t.Fatalf("unexpected directions %q %q", few.Direction(), many.Direction())
	}
}
