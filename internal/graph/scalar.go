package graph

import (
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// Milliseconds represents timestamps as integer Unix milliseconds on the
// wire. Parsed values surface as time.Time in resolver arguments.
var Milliseconds = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Milliseconds",
	Description: "Milliseconds of Unix time",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return v.UnixMilli()
		case *time.Time:
			if v == nil {
				return nil
			}
			return v.UnixMilli()
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		default:
			return nil
		}
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case int:
			return time.UnixMilli(int64(v))
		case int64:
			return time.UnixMilli(v)
		case float64:
			return time.UnixMilli(int64(v))
		case string:
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil
			}
			return time.UnixMilli(ms)
		default:
			return nil
		}
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		switch v := valueAST.(type) {
		case *ast.IntValue:
			ms, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			return time.UnixMilli(ms)
		case *ast.StringValue:
			ms, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			return time.UnixMilli(ms)
		default:
			return nil
		}
	},
})
