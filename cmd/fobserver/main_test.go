package main

import (
	"testing"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example,"))
	assert.Nil(t, splitList(""))
}

func TestAllow(t *testing.T) {
	resp, err := allow(wire.POST, wire.OPTIONS)(nil, args.New())
	require.NoError(t, err)
	assert.Equal(t, wire.StatusNoContent, resp.Status)
	assert.Equal(t, "POST, OPTIONS", resp.Headers.Get("Allow"))
}
