package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bpdiary/internal/reading"
)

type listResponse struct {
	Status string     `json:"status"`
	Data   ListResult `json:"data"`
}

func TestListText(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	out, _, err := env.run("text", NewListCommand)
	require.NoError(t, err)

	newGoldie(t).Assert(t, "list", []byte(out))
}

func TestListEmpty(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("text", NewListCommand)
	require.NoError(t, err)
	assert.Equal(t, "No readings.\n", out)
}

func TestListJSONMostRecentFirst(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seed()

	out, _, err := env.run("json", NewListCommand)
	require.NoError(t, err)

	var resp listResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Data.Count)
	require.Len(t, resp.Data.Readings, 4)
	assert.Equal(t, seeded[3], resp.Data.Readings[0])
	assert.Equal(t, seeded[0], resp.Data.Readings[3])
}

func TestListJSONEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("json", NewListCommand)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"readings":[],"count":0}}`, out)
}

func TestListDateRange(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	out, _, err := env.run("json", NewListCommand, "--from", "2024-01-10", "--to", "2024-01-10")
	require.NoError(t, err)

	var resp listResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Readings, 3)
	for _, r := range resp.Data.Readings {
		assert.Equal(t, reading.Date("2024-01-10"), r.Date)
	}
}

func TestListOpenEndedRange(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	// --to alone starts at the beginning of the diary.
	out, _, err := env.run("json", NewListCommand, "--to", "2024-01-09")
	require.NoError(t, err)

	var resp listResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Readings, 1)
	assert.Equal(t, reading.Date("2024-01-09"), resp.Data.Readings[0].Date)

	// --from alone ends today, 2024-01-10 on the test clock.
	out, _, err = env.run("json", NewListCommand, "--from", "2024-01-10")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data.Readings, 3)
}

func TestListInvalidDate(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("text", NewListCommand, "--from", "10/01/2024")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid --from")
}
