package graph

import (
	"testing"
	"time"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
)

func TestMilliseconds_Serialize(t *testing.T) {
	at := time.UnixMilli(1500000000000)

	assert.Equal(t, int64(1500000000000), Milliseconds.Serialize(at))
	assert.Equal(t, int64(1500000000000), Milliseconds.Serialize(&at))
	assert.Equal(t, int64(42), Milliseconds.Serialize(int64(42)))
	assert.Equal(t, int64(42), Milliseconds.Serialize(42))
	assert.Equal(t, int64(42), Milliseconds.Serialize(float64(42)))
	assert.Nil(t, Milliseconds.Serialize("not a timestamp"))
	assert.Nil(t, Milliseconds.Serialize((*time.Time)(nil)))
}

func TestMilliseconds_ParseValue(t *testing.T) {
	want := time.UnixMilli(1500000000000)

	assert.Equal(t, want, Milliseconds.ParseValue(1500000000000))
	assert.Equal(t, want, Milliseconds.ParseValue(int64(1500000000000)))
	assert.Equal(t, want, Milliseconds.ParseValue(float64(1500000000000)))
	assert.Equal(t, want, Milliseconds.ParseValue("1500000000000"))
	assert.Nil(t, Milliseconds.ParseValue("garbage"))
	assert.Nil(t, Milliseconds.ParseValue(true))
}

func TestMilliseconds_ParseLiteral(t *testing.T) {
	want := time.UnixMilli(1500000000000)

	assert.Equal(t, want, Milliseconds.ParseLiteral(&ast.IntValue{Value: "1500000000000"}))
	assert.Equal(t, want, Milliseconds.ParseLiteral(&ast.StringValue{Value: "1500000000000"}))
	assert.Nil(t, Milliseconds.ParseLiteral(&ast.StringValue{Value: "garbage"}))
	assert.Nil(t, Milliseconds.ParseLiteral(&ast.BooleanValue{Value: true}))
}
