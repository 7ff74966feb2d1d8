package kpistore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/bfskpi/internal/contract"
)

// renderLiteral substitutes args into the query's ? placeholders, producing
// the exact SQL a person could paste into a database shell to reproduce a
// count. Numbers stay unquoted; strings and timestamps are single-quoted
// with internal quotes doubled.
func renderLiteral(query string, args ...any) string {
	var b strings.Builder
	argIdx := 0
	for _, ch := range query {
		if ch == '?' && argIdx < len(args) {
			b.WriteString(literalValue(args[argIdx]))
			argIdx++
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func literalValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return quoteString(val.Format(contract.DateTimeFormat))
	case string:
		return quoteString(val)
	default:
		return quoteString(fmt.Sprintf("%v", val))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
