package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerent/carfleet/internal/session"
)

func TestManagerAnnounce(t *testing.T) {
	t.Run("subscribers receive events", func(t *testing.T) {
		m := session.NewManager()
		ch, cancel := m.Subscribe(4)
		defer cancel()

		userID := uuid.New()
		m.Announce(session.Event{Kind: session.EventSignedIn, UserID: userID, Email: "owner@example.com"})

		select {
		case ev := <-ch:
			assert.Equal(t, session.EventSignedIn, ev.Kind)
			assert.Equal(t, userID, ev.UserID)
		case <-time.After(time.Second):
			t.Fatal("no event delivered")
		}
	})

	t.Run("current tracks sign in and out", func(t *testing.T) {
		m := session.NewManager()
		userID := uuid.New()

		_, ok := m.Current()
		assert.False(t, ok)

		m.Announce(session.Event{Kind: session.EventSignedIn, UserID: userID})
		cur, ok := m.Current()
		require.True(t, ok)
		assert.Equal(t, userID, cur.UserID)

		m.Announce(session.Event{Kind: session.EventSignedOut, UserID: userID})
		_, ok = m.Current()
		assert.False(t, ok)
	})

	t.Run("full subscriber does not block announce", func(t *testing.T) {
		m := session.NewManager()
		_, cancel := m.Subscribe(0)
		defer cancel()

		done := make(chan struct{})
		go func() {
			m.Announce(session.Event{Kind: session.EventSignedIn, UserID: uuid.New()})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("announce blocked on a full subscriber")
		}
	})

	t.Run("cancel closes the channel", func(t *testing.T) {
		m := session.NewManager()
		ch, cancel := m.Subscribe(1)
		cancel()

		_, open := <-ch
		assert.False(t, open)
	})
}
