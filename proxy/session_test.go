package proxy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend plays the backing system side of a session
type backend struct {
	toSession *io.PipeWriter
	received  chan map[string]any
}

func newTestSession(t *testing.T) (*Session, *backend) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	s := NewSessionSplit(inR, outW)
	b := &backend{toSession: inW, received: make(chan map[string]any, 32)}

	go func() {
		rd := bufio.NewReader(outR)
		for {
			sizeStr, err := rd.ReadString(' ')
			if err != nil {
				return
			}
			n, _ := strconv.Atoi(sizeStr[:len(sizeStr)-1])
			blob := make([]byte, n+1)
			if _, err := io.ReadFull(rd, blob); err != nil {
				return
			}
			var msg map[string]any
			if err := json.Unmarshal(blob[:n], &msg); err == nil {
				b.received <- msg
			}
		}
	}()
	t.Cleanup(func() { s.Close() })
	return s, b
}

func (b *backend) send(t *testing.T, msg any) {
	buf, err := json.Marshal(msg)
	require.NoError(t, err)
	_, err = fmt.Fprintf(b.toSession, "%d %s\n", len(buf), buf)
	require.NoError(t, err)
}

func (b *backend) next(t *testing.T) map[string]any {
	select {
	case msg := <-b.received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message from the session")
		return nil
	}
}

func waitProcess(t *testing.T, s *Session) error {
	select {
	case <-s.ProcessSignal():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for incoming message")
	}
	return s.Process()
}

func TestSessionUpdateAndRemoteChanges(t *testing.T) {
	s, b := newTestSession(t)

	px := NewProxyId("sources", "Sphere", "sphere-1")
	radius, _ := px.NewProperty("Radius", KindDouble, Default(0.5))
	input, _ := px.NewProperty("Input", KindProxy, Default(nil))
	tree := NewCompositeTreeDomain("tree", ModeLeaves)
	blocks, _ := px.NewProperty("Blocks", KindInt, Repeatable(), WithDomain(tree))
	require.NoError(t, s.Register(px))
	require.NoError(t, s.Register(px))
	assert.ErrorIs(t, s.Register(NewProxyId("x", "y", "sphere-1")), ErrIdentifierInUse)
	other := NewProxyId("sources", "Cone", "cone-1")
	require.NoError(t, s.Register(other))
	assert.Equal(t, s, px.Session())

	require.NoError(t, s.Process())
	assert.True(t, s.Started())

	msg := b.next(t)
	assert.Equal(t, "VERSION", msg["command"])
	msg = b.next(t)
	assert.Equal(t, "REGISTER", msg["command"])
	assert.Equal(t, "sphere-1", msg["identifier"])
	assert.Equal(t, []any{0.5}, msg["properties"].(map[string]any)["Radius"])
	assert.Equal(t, "REGISTER", b.next(t)["command"])

	radius.SetElement(0, 2.0)
	input.SetElement(0, other)
	px.ApplyPending()
	msg = b.next(t)
	assert.Equal(t, "UPDATE", msg["command"])
	props := msg["properties"].(map[string]any)
	assert.Equal(t, []any{2.0}, props["Radius"])
	assert.Equal(t, []any{"cone-1"}, props["Input"])
	assert.NotContains(t, props, "Blocks")

	modified := 0
	radius.OnModified(func() { modified++ })
	b.send(t, map[string]any{"command": "PROPERTY", "identifier": "sphere-1", "property": "Radius", "values": []any{4.5}})
	require.NoError(t, waitProcess(t, s))
	assert.Equal(t, 4.5, radius.Element(0))
	assert.Equal(t, 1, modified)
	assert.Empty(t, px.Pending(), "values from the backing system are not pending")

	b.send(t, map[string]any{"command": "PROPERTY", "identifier": "sphere-1", "property": "Input", "values": []any{nil}})
	require.NoError(t, waitProcess(t, s))
	assert.Nil(t, input.Element(0))

	structural := 0
	tree.OnModified(func() { structural++ })
	b.send(t, map[string]any{
		"command":    "INFORMATION",
		"identifier": "sphere-1",
		"property":   "Blocks",
		"information": DataInformation{
			Composite: MultiBlock,
			Children:  []Child{{Name: "a"}, {Name: "b"}},
		},
	})
	require.NoError(t, waitProcess(t, s))
	assert.Equal(t, 1, structural)
	assert.Equal(t, 2, tree.Information().NumberOfChildren())
	assert.Equal(t, 0, blocks.NumberOfElements())

	// Unknown proxies and bad values are warnings, not fatal
	b.send(t, map[string]any{"command": "PROPERTY", "identifier": "nope", "property": "Radius", "values": []any{1}})
	require.NoError(t, waitProcess(t, s))
	b.send(t, map[string]any{"command": "PROPERTY", "identifier": "sphere-1", "property": "Radius", "values": []any{"wide"}})
	require.NoError(t, waitProcess(t, s))
	assert.Equal(t, 4.5, radius.Element(0))

	b.send(t, map[string]any{"command": "EXPLODE", "identifier": "sphere-1"})
	assert.Error(t, waitProcess(t, s))
	assert.Error(t, s.Err())
}

func TestSessionRunLockable(t *testing.T) {
	s, b := newTestSession(t)
	px := NewProxyId("sources", "Sphere", "sphere-1")
	radius, _ := px.NewProperty("Radius", KindDouble, Default(0.5))
	require.NoError(t, s.Register(px))

	lock, errs := s.RunLockable()
	assert.Equal(t, "VERSION", b.next(t)["command"])
	assert.Equal(t, "REGISTER", b.next(t)["command"])

	b.send(t, map[string]any{"command": "PROPERTY", "identifier": "sphere-1", "property": "Radius", "values": []any{3}})
	assert.Eventually(t, func() bool {
		lock.Lock()
		defer lock.Unlock()
		return radius.Element(0) == 3.0
	}, 2*time.Second, 10*time.Millisecond)

	s.Close()
	select {
	case <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("RunLockable did not stop after Close")
	}
}

func TestSessionCloseStopsReader(t *testing.T) {
	s, b := newTestSession(t)
	require.NoError(t, s.Process())
	assert.Equal(t, "VERSION", b.next(t)["command"])

	// the reader goroutine is blocked in a read while the session closes
	require.NoError(t, s.Close())
	select {
	case _, open := <-s.ProcessSignal():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not stop after Close")
	}
	assert.ErrorIs(t, s.Err(), io.ErrClosedPipe)
	assert.ErrorIs(t, s.Process(), io.ErrClosedPipe)

	// later messages are dropped
	px := NewProxyId("sources", "Sphere", "sphere-2")
	require.NoError(t, s.Register(px))
	assert.ErrorIs(t, s.Err(), io.ErrClosedPipe)
}
