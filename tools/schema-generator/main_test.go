package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchema(t *testing.T) {
	schema := buildSchema()

	assert.Equal(t, "ProTalker Configuration", schema.Title)
	assert.Empty(t, schema.Required)

	_, ok := schema.Properties.Get("chat_url")
	assert.True(t, ok, "chat_url property")
	_, ok = schema.Properties.Get("devserver")
	assert.True(t, ok, "devserver property")

	devserver, ok := schema.Definitions["DevServerConfig"]
	require.True(t, ok)
	_, ok = devserver.Properties.Get("openai_api_key")
	assert.True(t, ok, "openai_api_key property")
}
