package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON5_DropsQuotesOnBareIdentifierKeys(t *testing.T) {
	result, err := JSON5("any", textResult(`{"name": "x", "count": 3, "1bad": true}`))
	require.NoError(t, err)
	assert.Equal(t, `{"1bad":true,count:3,name:"x"}`, onlyText(t, result))
}

func TestJSON5_NonJSONPassesThrough(t *testing.T) {
	result, err := JSON5("any", textResult(`not json at all`))
	require.NoError(t, err)
	assert.Equal(t, `not json at all`, onlyText(t, result))
}

func TestJSON5_NestedArrays(t *testing.T) {
	result, err := JSON5("any", textResult(`{"items": [1, 2, {"ok": true}]}`))
	require.NoError(t, err)
	assert.Equal(t, `{items:[1,2,{ok:true}]}`, onlyText(t, result))
}
