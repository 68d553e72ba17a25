package runtime

import "strconv"

// Truthiness maps a value onto an integer for If and Until conditions:
// unit is 0, integers are themselves, strings are 0 when empty and 1 otherwise.
// It is a coercion, not a numeric parse.
func Truthiness(v Value) (int64, error) {
	switch val := v.(type) {
	case UnitValue:
		return 0, nil
	case IntegerValue:
		return val.Val, nil
	case StringValue:
		if val.Val == "" {
			return 0, nil
		}
		return 1, nil
	default:
		return 0, &TypeMismatchError{Operation: "truthiness", Kinds: []Kind{v.Kind()}}
	}
}

// IsTruthy reports whether the value's truthiness is strictly positive.
func IsTruthy(v Value) (bool, error) {
	n, err := Truthiness(v)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ParseInteger implements the ToInteger built-in: strings are parsed as
// base-10 integers, unit becomes 0 and integers pass through.
func ParseInteger(v Value) (IntegerValue, error) {
	switch val := v.(type) {
	case UnitValue:
		return IntegerValue{Val: 0}, nil
	case IntegerValue:
		return val, nil
	case StringValue:
		n, err := strconv.ParseInt(val.Val, 10, 64)
		if err != nil {
			return IntegerValue{}, &ConversionError{Source: val.Val, Err: err}
		}
		return IntegerValue{Val: n}, nil
	default:
		return IntegerValue{}, &TypeMismatchError{Operation: "to_integer", Kinds: []Kind{v.Kind()}}
	}
}

// Stringify renders the textual form used by Print and ToString.
func Stringify(v Value) (string, error) {
	switch val := v.(type) {
	case UnitValue:
		return "unit", nil
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10), nil
	case StringValue:
		return val.Val, nil
	default:
		return "", &TypeMismatchError{Operation: "to_string", Kinds: []Kind{v.Kind()}}
	}
}
