package proxy

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	cerrors "cogentcore.org/core/base/errors"
)

// ProtocolVersion is sent to the backing system when a session starts.
const ProtocolVersion = 1

var ErrIdentifierInUse = errors.New("proxy identifier in use")

// Session connects proxies to the backing system over a pair of streams.
//
// Outgoing messages are VERSION (on start), REGISTER (for each registered
// proxy) and UPDATE (from Proxy.ApplyPending). Incoming messages are PROPERTY,
// which replaces the checked value of a property as a change made by the
// backing system, and INFORMATION, which replaces the dataset structure of a
// composite tree domain.
type Session struct {
	in      io.ReadCloser
	out     io.WriteCloser
	proxies map[string]*Proxy
	order   []*Proxy
	logger  *slog.Logger

	// errMu guards err, which the reader goroutine also sets.
	errMu sync.Mutex
	err   error

	started       bool
	processSignal chan struct{}
	queue         chan []byte
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for protocol warnings and errors.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session over an open stream. Proxies are registered
// with Register, and Run or Process must be called to start processing data.
func NewSession(data io.ReadWriteCloser, opts ...SessionOption) *Session {
	return NewSessionSplit(data, data, opts...)
}

// NewSessionSplit is equivalent to NewSession, except that it uses separate
// streams for reading and writing.
func NewSessionSplit(in io.ReadCloser, out io.WriteCloser, opts ...SessionOption) *Session {
	s := &Session{
		in:            in,
		out:           out,
		proxies:       make(map[string]*Proxy),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		processSignal: make(chan struct{}, 2),
		queue:         make(chan []byte, 128),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type messageBase struct {
	Command    string `json:"command"`
	Identifier string `json:"identifier,omitempty"`
}

type propertyMessage struct {
	messageBase
	Property string `json:"property"`
	Values   []any  `json:"values"`
}

type informationMessage struct {
	messageBase
	Property    string           `json:"property"`
	Information *DataInformation `json:"information"`
}

func (s *Session) fatal(fmsg string, p ...interface{}) {
	s.logger.Error("session fatal", "error", fmt.Sprintf(fmsg, p...))
	if s.setErr(fmt.Errorf(fmsg, p...)) {
		s.in.Close()
		s.out.Close()
	}
}

// setErr records err unless an error is already set, reporting whether it
// was recorded.
func (s *Session) setErr(err error) bool {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err != nil {
		return false
	}
	s.err = err
	return true
}

func (s *Session) warn(fmsg string, p ...interface{}) {
	s.logger.Warn(fmt.Sprintf(fmsg, p...))
}

// Err returns the error that closed the session, if any.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) sendMessage(msg interface{}) {
	if s.Err() != nil {
		return
	}
	buf, err := json.Marshal(msg)
	if err != nil {
		s.fatal("message encoding failed: %s", err)
		return
	}
	if _, err := fmt.Fprintf(s.out, "%d %s\n", len(buf), buf); err != nil {
		s.fatal("write error: %s", err)
	}
}

// handle runs in an internal goroutine to read from 'in'. Messages are
// posted to the queue and processSignal is triggered.
func (s *Session) handle() {
	defer close(s.processSignal)
	defer close(s.queue)

	rd := bufio.NewReader(s.in)
	for s.Err() == nil {
		sizeStr, err := rd.ReadString(' ')
		if err != nil {
			s.fatal("read error: %s", err)
			return
		} else if len(sizeStr) < 2 {
			s.fatal("read invalid message: invalid size")
			return
		}

		byteCnt, _ := strconv.ParseInt(sizeStr[:len(sizeStr)-1], 10, 32)
		if byteCnt < 1 {
			s.fatal("read invalid message: size too short")
			return
		}

		blob := make([]byte, byteCnt)
		if _, err := io.ReadFull(rd, blob); err != nil {
			s.fatal("read error: %s", err)
			return
		}

		// Read the final newline
		if nl, err := rd.ReadByte(); err != nil {
			s.fatal("read error: %s", err)
			return
		} else if nl != '\n' {
			s.fatal("read invalid message: expected terminating newline, read %c", nl)
			return
		}

		s.queue <- blob
		s.processSignal <- struct{}{}
	}
}

func (s *Session) ensureHandler() error {
	if !s.started {
		s.started = true

		s.sendMessage(struct {
			messageBase
			Version int `json:"version"`
		}{messageBase{Command: "VERSION"}, ProtocolVersion})
		for _, px := range s.order {
			s.sendRegister(px)
		}

		if err := s.Err(); err != nil {
			return err
		}
		go s.handle()
	}
	return nil
}

func (s *Session) Started() bool {
	return s.started
}

// Run processes messages until the session is closed. Proxies may be touched
// by Run at any time; for control over concurrency, see Process and
// RunLockable.
func (s *Session) Run() error {
	if err := s.ensureHandler(); err != nil {
		return err
	}
	for {
		if _, open := <-s.processSignal; !open {
			return s.Err()
		}
		if err := s.Process(); err != nil {
			return err
		}
	}
}

// Process handles any pending messages without blocking to wait for new
// ones. Property changes made by the backing system, and the signals they
// emit, happen only inside Process. ProcessSignal signals when there are
// messages to process.
//
// Process returns nil when no messages are pending. All errors are fatal for
// the session.
func (s *Session) Process() error {
	if err := s.ensureHandler(); err != nil {
		return err
	}

	for {
		var data []byte
		select {
		case data = <-s.queue:
		default:
			return s.Err()
		}
		if data == nil {
			// queue closed; the error from fatal is returned
			return s.Err()
		}

		var base messageBase
		if err := json.Unmarshal(data, &base); err != nil {
			s.fatal("process invalid message: %s", err)
			continue
		}

		px, exists := s.proxies[base.Identifier]

		switch base.Command {
		case "PROPERTY":
			var msg propertyMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				s.fatal("process invalid PROPERTY message: %s", err)
				break
			}
			if !exists {
				s.warn("property change on unknown proxy %s", base.Identifier)
				break
			}
			s.applyRemoteValues(px, msg.Property, msg.Values)

		case "INFORMATION":
			var msg informationMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				s.fatal("process invalid INFORMATION message: %s", err)
				break
			}
			if !exists {
				s.warn("information for unknown proxy %s", base.Identifier)
				break
			}
			prop := px.Property(msg.Property)
			if prop == nil {
				s.warn("information for unknown property %s on %s", msg.Property, px)
				break
			}
			d, ok := prop.FindDomain(DomainCompositeTree).(*CompositeTreeDomain)
			if !ok {
				s.warn("information for property %s on %s, which has no composite tree domain", msg.Property, px)
				break
			}
			d.SetInformation(msg.Information)

		default:
			s.fatal("unknown command %s", base.Command)
		}
	}
}

func (s *Session) applyRemoteValues(px *Proxy, name string, values []any) {
	prop := px.Property(name)
	if prop == nil {
		s.warn("property change on unknown property %s of %s", name, px)
		return
	}

	elements := make([]any, len(values))
	for i, v := range values {
		if prop.kind == KindProxy {
			id, _ := v.(string)
			if v != nil && s.proxies[id] == nil {
				s.warn("property %s of %s references unknown proxy %v", name, px, v)
				return
			}
			elements[i] = s.proxies[id]
			continue
		}
		cv, ok := Coerce(prop.kind, v)
		if !ok {
			s.warn("property %s of %s: cannot convert %v to %s", name, px, v, prop.kind)
			return
		}
		elements[i] = cv
	}
	prop.setRemote(elements)
}

// ProcessSignal returns a channel that receives a value when messages are
// waiting for Process. It is closed when the session ends.
func (s *Session) ProcessSignal() <-chan struct{} {
	s.ensureHandler()
	return s.processSignal
}

// Register adds a proxy to the session. Values of its properties are sent
// to the backing system by Proxy.ApplyPending.
func (s *Session) Register(px *Proxy) error {
	id := px.Identifier()
	if e, exists := s.proxies[id]; exists {
		if e == px {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrIdentifierInUse, id)
	}

	s.proxies[id] = px
	s.order = append(s.order, px)
	px.session = s
	if s.started {
		s.sendRegister(px)
	}
	return nil
}

// Proxy returns a registered proxy by its identifier.
func (s *Session) Proxy(id string) *Proxy {
	return s.proxies[id]
}

// Proxies returns registered proxies in registration order.
func (s *Session) Proxies() []*Proxy {
	return s.order
}

// Close closes both streams of the session.
func (s *Session) Close() error {
	s.setErr(io.ErrClosedPipe)
	cerrors.Log(s.in.Close())
	return s.out.Close()
}

func (s *Session) sendRegister(px *Proxy) {
	s.sendMessage(struct {
		messageBase
		Group      string           `json:"group"`
		Name       string           `json:"name"`
		Properties map[string][]any `json:"properties"`
	}{
		messageBase{"REGISTER", px.Identifier()},
		px.Group(),
		px.Name(),
		encodeProperties(px.Properties()),
	})
}

func (s *Session) sendUpdate(px *Proxy, props []*Property) {
	s.sendMessage(struct {
		messageBase
		Properties map[string][]any `json:"properties"`
	}{
		messageBase{"UPDATE", px.Identifier()},
		encodeProperties(props),
	})
}

// encodeProperties replaces proxy references with their identifiers
func encodeProperties(props []*Property) map[string][]any {
	data := make(map[string][]any, len(props))
	for _, prop := range props {
		values := make([]any, len(prop.elements))
		for i, v := range prop.elements {
			if ref, ok := v.(*Proxy); ok {
				if ref == nil {
					values[i] = nil
				} else {
					values[i] = ref.Identifier()
				}
			} else {
				values[i] = v
			}
		}
		data[prop.name] = values
	}
	return data
}
