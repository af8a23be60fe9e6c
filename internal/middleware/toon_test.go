package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToon_ScalarFieldsOneLinePerKey(t *testing.T) {
	result, err := Toon("any", textResult(`{"name": "svc", "port": 8080}`))
	require.NoError(t, err)
	assert.Equal(t, "name: svc\nport: 8080", onlyText(t, result))
}

func TestToon_UniformObjectArrayIsTabular(t *testing.T) {
	result, err := Toon("any", textResult(`[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,a\n2,b", onlyText(t, result))
}

func TestToon_NonObjectNonArrayPassesThrough(t *testing.T) {
	result, err := Toon("any", textResult(`"just a string"`))
	require.NoError(t, err)
	assert.Equal(t, `"just a string"`, onlyText(t, result))
}

func TestToon_NonJSONPassesThrough(t *testing.T) {
	result, err := Toon("any", textResult(`plain text`))
	require.NoError(t, err)
	assert.Equal(t, `plain text`, onlyText(t, result))
}
