package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		var out bytes.Buffer

		err := run(nil, rand.Reader, &out)

		require.NoError(t, err)
		key, err := hex.DecodeString(strings.TrimSpace(out.String()))
		require.NoError(t, err, "key must be hex encoded")
		require.Len(t, key, DefaultSecretKeyBytesLen)
	})

	t.Run("custom length", func(t *testing.T) {
		var out bytes.Buffer

		err := run([]string{"-n", "4"}, bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef}), &out)

		require.NoError(t, err)
		require.Equal(t, "deadbeef\n", out.String())
	})

	t.Run("not enough random", func(t *testing.T) {
		var out bytes.Buffer

		err := run([]string{"--bytes", "8"}, bytes.NewReader([]byte{1, 2}), &out)

		require.Error(t, err)
		require.Empty(t, out.String())
	})

	t.Run("bad length", func(t *testing.T) {
		err := run([]string{"-n", "0"}, rand.Reader, &bytes.Buffer{})

		require.Error(t, err)
	})
}
