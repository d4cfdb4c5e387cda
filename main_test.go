package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapitanov/chip8cpu/internal/vm"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out, errOut bytes.Buffer
	cmd := newCommand(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestScenarioFlag(t *testing.T) {
	out, err := execute(t, "--scenario", "double-add")
	require.NoError(t, err)
	assert.Contains(t, out, "v0 =  45 (0x2d)")

	out, err = execute(t, "-s", "inline-add")
	require.NoError(t, err)
	assert.Contains(t, out, "v0 =  35 (0x23)")
}

func TestRomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "add.rom")
	require.NoError(t, os.WriteFile(path, []byte{0x80, 0x14, 0x00, 0x00}, 0o644))

	out, err := execute(t, path, "--at", "0x200", "--pc", "0x200", "-r", "v0=250", "-r", "v1=10")
	require.NoError(t, err)
	assert.Contains(t, out, "v0 =   4 (0x04)")
	assert.Contains(t, out, "vf =   1 (0x01)")
	assert.Contains(t, out, "pc = 0x0204")
}

func TestErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rom")
	require.NoError(t, os.WriteFile(path, []byte{0x12, 0x34}, 0o644))

	_, err := execute(t, path)
	assert.ErrorIs(t, err, vm.ErrUnimplementedOpcode)

	_, err = execute(t, path, "--at", "0xfff")
	assert.ErrorIs(t, err, vm.ErrLoadOutOfBounds)

	_, err = execute(t)
	assert.Error(t, err)

	_, err = execute(t, "--scenario", "missing")
	assert.Error(t, err)

	_, err = execute(t, path, "--scenario", "double-add")
	assert.Error(t, err)

	_, err = execute(t, "--scenario", "double-add", "--max-steps", "3")
	assert.ErrorIs(t, err, vm.ErrStepLimit)

	_, err = execute(t, "--scenario", "double-add", "-r", "v0=6")
	assert.ErrorIs(t, err, errExpectation)
}

func TestParseRegister(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		in    string
		index int
		value uint8
		ok    bool
	}){
		{"v0=5", 0, 5, true},
		{"vF=0xff", 15, 255, true},
		{"a=10", 10, 10, true},
		{"v10=1", 0, 0, false},
		{"v0=256", 0, 0, false},
		{"v0", 0, 0, false},
		{"vg=1", 0, 0, false},
	}

	for _, entry := range table {
		i, v, err := parseRegister(entry.in)
		if !entry.ok {
			assert.Error(err, entry.in)
			continue
		}
		assert.NoError(err, entry.in)
		assert.Equal(entry.index, i, entry.in)
		assert.Equal(entry.value, v, entry.in)
	}
}
