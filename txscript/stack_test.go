package txscript

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func dumpStack(t *testing.T, s *stack) {
	t.Helper()
	t.Log(spew.Sdump(s.stk))
}

func TestStackPushPopByteArray(t *testing.T) {
	var s stack
	s.PushByteArray([]byte{1, 2, 3})
	s.PushByteArray([]byte{4, 5})
	require.EqualValues(t, 2, s.Depth())

	top, err := s.PopByteArray()
	require.NoError(t, err)
	require.Equal(t, []byte{4, 5}, top)
	require.EqualValues(t, 1, s.Depth())

	if t.Failed() {
		dumpStack(t, &s)
	}
}

func TestStackPushPopInt(t *testing.T) {
	var s stack
	s.PushInt(ScriptNum(17))
	s.PushInt(ScriptNum(-1))

	n, err := s.PopInt()
	require.NoError(t, err)
	require.EqualValues(t, -1, n)

	n, err = s.PopInt()
	require.NoError(t, err)
	require.EqualValues(t, 17, n)
}

func TestStackPushPopBool(t *testing.T) {
	var s stack
	s.PushBool(true)
	s.PushBool(false)

	b, err := s.PopBool()
	require.NoError(t, err)
	require.False(t, b)

	b, err = s.PopBool()
	require.NoError(t, err)
	require.True(t, b)
}

func TestStackPopEmptyErrors(t *testing.T) {
	var s stack
	_, err := s.PopByteArray()
	require.Error(t, err)
}

func TestStackDupN(t *testing.T) {
	var s stack
	s.PushByteArray([]byte{1})
	s.PushByteArray([]byte{2})
	require.NoError(t, s.DupN(2))
	require.EqualValues(t, 4, s.Depth())

	top, _ := s.PeekByteArray(0)
	require.Equal(t, []byte{2}, top)
	second, _ := s.PeekByteArray(1)
	require.Equal(t, []byte{1}, second)
}

func TestStackRotN(t *testing.T) {
	var s stack
	s.PushByteArray([]byte{1})
	s.PushByteArray([]byte{2})
	s.PushByteArray([]byte{3})
	require.NoError(t, s.RotN(1))

	top, _ := s.PeekByteArray(0)
	require.Equal(t, []byte{1}, top)
}

func TestStackSwapN(t *testing.T) {
	var s stack
	s.PushByteArray([]byte{1})
	s.PushByteArray([]byte{2})
	require.NoError(t, s.SwapN(1))

	top, _ := s.PeekByteArray(0)
	require.Equal(t, []byte{1}, top)
	second, _ := s.PeekByteArray(1)
	require.Equal(t, []byte{2}, second)
}

func TestStackTuck(t *testing.T) {
	var s stack
	s.PushByteArray([]byte{1})
	s.PushByteArray([]byte{2})
	require.NoError(t, s.Tuck())
	require.EqualValues(t, 3, s.Depth())

	bottom, _ := s.PeekByteArray(2)
	require.Equal(t, []byte{2}, bottom)
}

func TestStackPickRoll(t *testing.T) {
	var s stack
	s.PushByteArray([]byte{1})
	s.PushByteArray([]byte{2})
	s.PushByteArray([]byte{3})

	require.NoError(t, s.PickN(2))
	top, _ := s.PeekByteArray(0)
	require.Equal(t, []byte{1}, top)
	require.EqualValues(t, 4, s.Depth())

	require.NoError(t, s.RollN(3))
	top, _ = s.PeekByteArray(0)
	require.Equal(t, []byte{1}, top)
	require.EqualValues(t, 4, s.Depth())
}

func TestAsBoolNegativeZero(t *testing.T) {
	require.False(t, asBool([]byte{0x80}))
	require.False(t, asBool([]byte{0x00, 0x00}))
	require.True(t, asBool([]byte{0x01}))
	require.True(t, asBool([]byte{0x00, 0x01}))
}
