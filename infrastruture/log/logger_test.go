package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("requires a prefix", func(t *testing.T) {
		_, err := New("", "", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyPrefix)
	})

	t.Run("requires a writer", func(t *testing.T) {
		_, err := New("APP", "", nil)
		assert.Error(t, err)
	})
}

func TestLevels(t *testing.T) {
	var out bytes.Buffer
	l, err := New("RACE", "", &out)
	require.NoError(t, err)

	l.Info("started")
	l.Warning("slow")
	l.Error("failed")
	l.Debug("tick")

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	for i, level := range []string{"info", "warning", "error", "debug"} {
		assert.Contains(t, string(lines[i]), "level="+level)
		assert.Contains(t, string(lines[i]), "component=\"[RACE]\"")
	}
	assert.Contains(t, string(lines[0]), "msg=started")
}
