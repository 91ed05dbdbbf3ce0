package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomaselliottbetz/scim-sanity/pkg/probe"
	"github.com/thomaselliottbetz/scim-sanity/pkg/refserver"
)

func startRefServer(t *testing.T, nc refserver.NonConformances) *refserver.Server {
	t.Helper()
	s := refserver.New(refserver.Options{NonConformances: nc})
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestE2E_ConformantServerPassesProbe(t *testing.T) {
	s := startRefServer(t, refserver.NonConformances{})

	var buf bytes.Buffer
	code := probe.Run(&buf, false, probe.Options{
		BaseURL:           s.BaseURL(),
		AcceptSideEffects: true,
		JSONOutput:        true,
		Strict:            true,
		Timestamp:         "2024-06-01T12:00:00Z",
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	summary := decoded["summary"].(map[string]interface{})

	assert.Equal(t, 0, code, buf.String())
	assert.Equal(t, "strict", decoded["mode"])
	assert.Equal(t, "2024-06-01T12:00:00Z", decoded["timestamp"])
	assert.NotEmpty(t, decoded["scim_sanity_version"])
	assert.Equal(t, float64(0), summary["failed"])
	assert.Equal(t, float64(0), summary["errors"])
	assert.Greater(t, summary["passed"], float64(0))
}

func TestE2E_MissingMetaDetected(t *testing.T) {
	s := startRefServer(t, refserver.NonConformances{MissingMeta: true})

	var buf bytes.Buffer
	code := probe.Run(&buf, false, probe.Options{
		BaseURL:           s.BaseURL(),
		AcceptSideEffects: true,
		Strict:            true,
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "'meta'")
}

func TestE2E_ContentTypeCompatDowngrade(t *testing.T) {
	s := startRefServer(t, refserver.NonConformances{ContentTypeJSON: true})

	var buf bytes.Buffer
	code := probe.Run(&buf, false, probe.Options{
		BaseURL:           s.BaseURL(),
		AcceptSideEffects: true,
		JSONOutput:        true,
		Strict:            false,
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	summary := decoded["summary"].(map[string]interface{})

	assert.Equal(t, 0, code, buf.String())
	assert.Equal(t, float64(0), summary["failed"])
	assert.Greater(t, summary["warnings"], float64(0))
}

func TestE2E_ThrottleRecovery(t *testing.T) {
	s := startRefServer(t, refserver.NonConformances{ThrottleCount: 2})

	var buf bytes.Buffer
	code := probe.Run(&buf, false, probe.Options{
		BaseURL:           s.BaseURL(),
		AcceptSideEffects: true,
		Strict:            true,
	})

	assert.Equal(t, 0, code, buf.String())
}

func TestE2E_SideEffectRefusal_ServerStaysIdle(t *testing.T) {
	s := startRefServer(t, refserver.NonConformances{})

	var buf bytes.Buffer
	code := probe.Run(&buf, false, probe.Options{
		BaseURL:           s.BaseURL(),
		AcceptSideEffects: false,
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "--i-accept-side-effects")

	resp, err := http.Get(s.BaseURL() + "/Users")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, float64(0), list["totalResults"])
}
