package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownAndUnknown(t *testing.T) {
	mw, ok := Lookup("strip-json-keys")
	require.True(t, ok)
	assert.Equal(t, "strip-json-keys", mw.Name)
	assert.NotNil(t, mw.Response)

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestBuildPipeline_DropsUnknownNames(t *testing.T) {
	chain := BuildPipeline([]string{"strip-json-keys", "bogus", "toon"})
	require.Len(t, chain, 2)
	assert.Equal(t, "strip-json-keys", chain[0].Name)
	assert.Equal(t, "toon", chain[1].Name)
}

func TestApply_RunsEachStageInOrder(t *testing.T) {
	chain := BuildPipeline([]string{"strip-result-wrapper", "strip-json-keys"})
	result := Apply(chain, "some_tool", textResult(`{"result": {"name": "x"}}`))
	assert.Equal(t, `{name:"x"}`, onlyText(t, result))
}

func TestApply_EmptyPipelinePassesThrough(t *testing.T) {
	result := Apply(nil, "some_tool", textResult(`{"a": 1}`))
	assert.Equal(t, `{"a": 1}`, onlyText(t, result))
}
