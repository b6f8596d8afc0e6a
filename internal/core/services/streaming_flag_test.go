package services

import (
	"testing"
	"time"

	"springboard/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestStreamingFlag_SetAndOrigin(t *testing.T) {
	flag := NewStreamingFlag()
	assert.False(t, flag.Raised())
	assert.Empty(t, flag.Origin())

	flag.Set("s1")
	assert.True(t, flag.Raised())
	assert.Equal(t, domain.SessionID("s1"), flag.Origin())

	flag.Clear("s1")
	assert.False(t, flag.Raised())
}

func TestStreamingFlag_OtherThan(t *testing.T) {
	flag := NewStreamingFlag()
	assert.False(t, flag.OtherThan("s1"))

	flag.Set("s1")
	assert.False(t, flag.OtherThan("s1"))
	assert.True(t, flag.OtherThan("s2"))
}

func TestStreamingFlag_ClearByOtherSessionIgnored(t *testing.T) {
	flag := NewStreamingFlag()
	flag.Set("s1")

	// Only the raising session (or an anonymous clear) lowers the flag.
	flag.Clear("s2")
	assert.Equal(t, domain.SessionID("s1"), flag.Origin())

	flag.Clear("")
	assert.False(t, flag.Raised())
}

func TestStreamingFlag_SubscribeSeesChanges(t *testing.T) {
	flag := NewStreamingFlag()
	ch, cancel := flag.Subscribe()
	defer cancel()

	flag.Set("s1")

	select {
	case v := <-ch:
		assert.Equal(t, domain.SessionID("s1"), v)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}

func TestStreamingFlag_CoalescesForSlowSubscriber(t *testing.T) {
	flag := NewStreamingFlag()
	ch, cancel := flag.Subscribe()
	defer cancel()

	// Two changes while nobody reads; the subscriber sees the latest origin.
	flag.Set("s1")
	flag.Clear("s1")

	select {
	case v := <-ch:
		assert.Empty(t, v)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
	assert.False(t, flag.Raised())
}

func TestStreamingFlag_NoNotifyOnSameOrigin(t *testing.T) {
	flag := NewStreamingFlag()
	flag.Set("s1")
	ch, cancel := flag.Subscribe()
	defer cancel()

	flag.Set("s1")

	select {
	case <-ch:
		t.Fatal("unexpected notification for unchanged origin")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStreamingFlags_PerUserIsolation(t *testing.T) {
	flags := NewStreamingFlags()

	flags.For("u1").Set("s1")
	assert.True(t, flags.For("u1").Raised())
	assert.False(t, flags.For("u2").Raised())

	// Same user always gets the same flag.
	assert.Same(t, flags.For("u1"), flags.For("u1"))
}
