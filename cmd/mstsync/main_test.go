package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/mst-sync/internal/replay"
)

func TestInspect_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.slp")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a replay file"), 0o644))

	var out bytes.Buffer
	err := inspect(path, &out)
	assert.ErrorIs(t, err, replay.ErrCorruptFile)
	assert.Empty(t, out.String())
}

func TestOverrideString(t *testing.T) {
	v := "from-env"
	overrideString(&v, "")
	assert.Equal(t, "from-env", v)
	overrideString(&v, "from-flag")
	assert.Equal(t, "from-flag", v)
}
