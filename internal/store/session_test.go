package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_MarkAndSeen(t *testing.T) {
	s := NewSessionStore()

	assert.False(t, s.Seen(SessionMarkerKey("demo")))
	s.Mark(SessionMarkerKey("demo"))
	assert.True(t, s.Seen(SessionMarkerKey("demo")))
	assert.Equal(t, 1, s.Len())
}

func TestSessionStore_DeleteByPrefix(t *testing.T) {
	s := NewSessionStore()
	s.Mark("hb-tour-shown-demo")
	s.Mark("hb-tour-shown-staffing")
	s.Mark("hb-welcome-banner")
	s.Mark("unrelated-marker")

	s.DeleteByPrefix(ResetPrefixes...)

	assert.False(t, s.Seen("hb-tour-shown-demo"))
	assert.False(t, s.Seen("hb-tour-shown-staffing"))
	assert.False(t, s.Seen("hb-welcome-banner"))
	assert.True(t, s.Seen("unrelated-marker"))
	assert.Equal(t, 1, s.Len())
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	s := NewSessionStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Mark("hb-tour-shown-demo")
			_ = s.Seen("hb-tour-shown-demo")
		}()
	}
	wg.Wait()
	assert.True(t, s.Seen("hb-tour-shown-demo"))
}
