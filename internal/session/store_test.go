// ABOUTME: Tests for Store: ordered file sets, atomic take, staged args, session cleanup
// ABOUTME: Includes a concurrent record/take run that must lose no path

package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordFileKeepsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Open("s1")
	s.RecordFile("s1", "b.ts")
	s.RecordFile("s1", "a.ts")
	s.RecordFile("s1", "b.ts")

	assert.Equal(t, []string{"b.ts", "a.ts"}, s.Files("s1"))
}

func TestStore_RecordFileNormalizesPaths(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.RecordFile("s1", "src/./main.go")
	s.RecordFile("s1", "src/main.go")
	// "é" as e + combining acute and as the precomposed rune.
	s.RecordFile("s1", "cafe\u0301.go")
	s.RecordFile("s1", "caf\u00e9.go")

	assert.Equal(t, []string{"src/main.go", "caf\u00e9.go"}, s.Files("s1"))
}

func TestStore_RecordFileIgnoresEmptyPath(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.RecordFile("s1", "")
	assert.Empty(t, s.Files("s1"))
	assert.Equal(t, 0, s.Sessions())
}

func TestStore_TakeFilesClears(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.RecordFile("s1", "x.ts")

	got := s.TakeFiles("s1")
	assert.Equal(t, []string{"x.ts"}, got)

	again := s.TakeFiles("s1")
	require.NotNil(t, again)
	assert.Empty(t, again)
}

func TestStore_TakeFilesUnknownSession(t *testing.T) {
	t.Parallel()

	got := NewStore().TakeFiles("nope")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_FilesReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.RecordFile("s1", "a.go")
	got := s.Files("s1")
	got[0] = "mutated"

	assert.Equal(t, []string{"a.go"}, s.Files("s1"))
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Open("s1")
	s.RecordFile("s1", "a.go")
	s.Open("s1")

	assert.Equal(t, []string{"a.go"}, s.Files("s1"))
	assert.Equal(t, 1, s.Sessions())
}

func TestStore_StageAndTakeArgs(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Stage("s1", "call-1", map[string]any{"filePath": "x.ts"})
	assert.Equal(t, 1, s.PendingCalls())

	args, ok := s.TakeArgs("call-1")
	require.True(t, ok)
	assert.Equal(t, "x.ts", args["filePath"])

	args, ok = s.TakeArgs("call-1")
	assert.False(t, ok)
	assert.NotNil(t, args)
	assert.Empty(t, args)
	assert.Equal(t, 0, s.PendingCalls())
}

func TestStore_StageNilArgs(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Stage("s1", "call-1", nil)

	args, ok := s.TakeArgs("call-1")
	require.True(t, ok)
	assert.NotNil(t, args)
}

func TestStore_ForgetDropsFilesAndStagedCalls(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.RecordFile("s1", "a.go")
	s.RecordFile("s2", "b.go")
	s.Stage("s1", "call-1", map[string]any{})
	s.Stage("s2", "call-2", map[string]any{})

	s.Forget("s1")

	assert.Empty(t, s.Files("s1"))
	assert.Equal(t, []string{"b.go"}, s.Files("s2"))
	assert.Equal(t, 1, s.Sessions())
	_, ok := s.TakeArgs("call-1")
	assert.False(t, ok)
	_, ok = s.TakeArgs("call-2")
	assert.True(t, ok)
}

func TestStore_ConcurrentRecordAndTake(t *testing.T) {
	t.Parallel()

	const writers, perWriter = 8, 50
	s := NewStore()

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				s.RecordFile("s1", fmt.Sprintf("w%d/f%d.go", w, i))
			}
		}()
	}

	seen := make(map[string]bool)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	collect := func() {
		for _, f := range s.TakeFiles("s1") {
			assert.False(t, seen[f], "path %s delivered twice", f)
			seen[f] = true
		}
	}
loop:
	for {
		select {
		case <-done:
			break loop
		default:
			collect()
		}
	}
	collect()

	assert.Len(t, seen, writers*perWriter)
}
