package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/ifconnect/internal/wire"
)

// parseValue converts a CLI-supplied string into a wire.Value of typ,
// the type declared by the target entry's manifest line. An invokable
// entry has no scalar type and is rejected by the caller before this
// is reached.
func parseValue(typ wire.Type, raw string) (wire.Value, error) {
	switch typ {
	case wire.Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a boolean, got %q", raw)
		}
		return wire.BoolValue(b), nil
	case wire.Integer:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a 32-bit integer, got %q", raw)
		}
		return wire.IntValue(int32(n)), nil
	case wire.Float:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a float, got %q", raw)
		}
		return wire.FloatValue(float32(f)), nil
	case wire.Double:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a double, got %q", raw)
		}
		return wire.DoubleValue(f), nil
	case wire.String:
		return wire.StringValue(raw), nil
	case wire.Long:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wire.Value{}, fmt.Errorf("expected a 64-bit integer, got %q", raw)
		}
		return wire.LongValue(n), nil
	default:
		return wire.Value{}, fmt.Errorf("unsupported wire type %s", typ)
	}
}

// formatValue renders a decoded wire.Value for table/text display.
func formatValue(v wire.Value) string {
	switch v.Type() {
	case wire.Boolean:
		return strconv.FormatBool(v.Bool())
	case wire.Integer:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case wire.Float:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	case wire.Double:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case wire.String:
		return v.String()
	case wire.Long:
		return strconv.FormatInt(v.Int64(), 10)
	default:
		return ""
	}
}

// parseArgs parses "name=value" tokens into invoke arguments, in the
// order given, preserving duplicates (a peer's invoke handler decides
// what to do with a repeated name).
func parseArgs(tokens []string) ([]wire.Arg, error) {
	args := make([]wire.Arg, 0, len(tokens))
	for _, tok := range tokens {
		name, value, ok := strings.Cut(tok, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q, expected name=value", tok)
		}
		args = append(args, wire.Arg{Name: name, Value: value})
	}
	return args, nil
}
