// This file is part of Nightsky.
//
// Nightsky is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Nightsky is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Nightsky.  If not, see <https://www.gnu.org/licenses/>.

package wsnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/logger"
	"github.com/nightskyengine/rollback/session"
	"github.com/nightskyengine/rollback/snapshot"
)

// Sentinel errors returned during the handshake.
var (
	ErrHandshake    = errors.New("wsnet: handshake failed")
	ErrIncompatible = errors.New("wsnet: incompatible peer")
)

// Options for a peer connection. The zero value is usable.
type Options struct {
	// time allowed for the hello messages to be exchanged
	HandshakeTimeout time.Duration

	// how often a ping is sent. the connection is dropped if nothing is
	// received for PongWait
	PingPeriod time.Duration
	PongWait   time.Duration

	// time allowed for a single write
	WriteWait time.Duration

	// the number of outgoing messages that can be queued
	SendQueue int

	// permission for log entries. nil is logger.Allow
	Log logger.Permission

	// the match setup and rollback horizon. a hosting peer sends these to
	// the joining peer, which adopts them in place of its own. a horizon of
	// zero means the driver default
	Setup   battle.Setup
	Horizon int

	// names of the battle extensions in use. unlike the setup these must be
	// the same for both peers
	Extensions []string
}

func (o *Options) normalise() {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 10 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.SendQueue <= 0 {
		o.SendQueue = 256
	}
	if o.Log == nil {
		o.Log = logger.Allow
	}
}

// Peer is a connected websocket session. It implements the session.Session
// interface.
type Peer struct {
	conn   *websocket.Conn
	opts   Options
	id     uuid.UUID
	player int
	remote int

	// agreed during the handshake
	setup   battle.Setup
	horizon int

	send   chan envelope
	cancel context.CancelFunc
	done   chan struct{}

	crit      sync.Mutex
	inputs    []session.ConfirmedInput
	checksums []session.PeerChecksum
	status    session.Status
	rtt       time.Duration
	err       error

	// Close() has been called. errors caused by closing are not reported
	closing bool

	closeOnce sync.Once
}

// agreement is the outcome of a successful handshake
type agreement struct {
	id      uuid.UUID
	remote  int
	setup   battle.Setup
	horizon int
}

// handshake sends our hello and reads the peer's hello. the host decides the
// session id, the match setup and the horizon. the joining peer adopts them
func handshake(conn *websocket.Conn, id uuid.UUID, player int, host bool, opts Options) (agreement, error) {
	deadline := time.Now().Add(opts.HandshakeTimeout)
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)
	defer func() {
		_ = conn.SetReadDeadline(time.Time{})
		_ = conn.SetWriteDeadline(time.Time{})
	}()

	agreed := agreement{id: id, setup: opts.Setup, horizon: opts.Horizon}

	ours := envelope{Kind: kindHello, Hello: &hello{
		Version:      protocolVersion,
		Player:       player,
		SnapshotSize: snapshot.Size,
		Extensions:   opts.Extensions,
	}}
	if host {
		setup := opts.Setup
		ours.Hello.Session = id.String()
		ours.Hello.Setup = &setup
		ours.Hello.Horizon = opts.Horizon
	}

	data, err := encode(ours)
	if err != nil {
		return agreed, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return agreed, fmt.Errorf("%w: %w", ErrHandshake, err)
	}

	_, data, err = conn.ReadMessage()
	if err != nil {
		return agreed, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	theirs, err := decode(data)
	if err != nil {
		return agreed, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if theirs.Kind != kindHello || theirs.Hello == nil {
		return agreed, fmt.Errorf("%w: expected hello", ErrHandshake)
	}

	h := theirs.Hello
	if h.Version != protocolVersion {
		return agreed, fmt.Errorf("%w: protocol version %d (ours %d)", ErrIncompatible, h.Version, protocolVersion)
	}
	if h.SnapshotSize != snapshot.Size {
		return agreed, fmt.Errorf("%w: snapshot size %d (ours %d)", ErrIncompatible, h.SnapshotSize, snapshot.Size)
	}
	if h.Player == player || h.Player < 0 || h.Player >= input.NumPlayers {
		return agreed, fmt.Errorf("%w: peer is player %d (we are player %d)", ErrIncompatible, h.Player, player)
	}
	if !slices.EqualFunc(h.Extensions, opts.Extensions, strings.EqualFold) {
		return agreed, fmt.Errorf("%w: peer uses extensions %v (ours %v)", ErrIncompatible, h.Extensions, opts.Extensions)
	}
	agreed.remote = h.Player

	if host {
		return agreed, nil
	}

	agreed.id, err = uuid.Parse(h.Session)
	if err != nil {
		return agreed, fmt.Errorf("%w: session id: %w", ErrHandshake, err)
	}
	if h.Setup == nil {
		return agreed, fmt.Errorf("%w: host did not send the match setup", ErrIncompatible)
	}
	if !h.Setup.RoundFormat.Valid() || h.Setup.RoundTime < 0 {
		return agreed, fmt.Errorf("%w: unusable match setup from host: %+v", ErrIncompatible, *h.Setup)
	}
	if h.Horizon < 0 {
		return agreed, fmt.Errorf("%w: horizon %d from host", ErrIncompatible, h.Horizon)
	}
	agreed.setup = *h.Setup
	agreed.horizon = h.Horizon

	return agreed, nil
}

// newPeer starts the reader and writer for a connection that has completed
// the handshake
func newPeer(conn *websocket.Conn, player int, agreed agreement, opts Options) *Peer {
	p := &Peer{
		conn:    conn,
		opts:    opts,
		id:      agreed.id,
		player:  player,
		remote:  agreed.remote,
		setup:   agreed.setup,
		horizon: agreed.horizon,
		send:    make(chan envelope, opts.SendQueue),
		done:    make(chan struct{}),
		status:  session.Connected,
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.reader()
	})
	g.Go(func() error {
		return p.writer(ctx)
	})

	go func() {
		err := g.Wait()
		p.crit.Lock()
		p.status = session.Disconnected
		if !p.closing {
			p.err = err
		}
		p.crit.Unlock()
		logger.Logf(p.opts.Log, "wsnet", "session %s ended: %v", p.id, err)
		close(p.done)
	}()

	logger.Logf(opts.Log, "wsnet", "session %s: player %d connected to player %d", p.id, player, p.remote)

	return p
}

// reader runs until the connection fails or is closed
func (p *Peer) reader() error {
	// the reader ending means the session has ended
	defer p.cancel()

	_ = p.conn.SetReadDeadline(time.Now().Add(p.opts.PongWait))
	p.conn.SetPongHandler(func(data string) error {
		_ = p.conn.SetReadDeadline(time.Now().Add(p.opts.PongWait))
		sent, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			return nil
		}
		p.crit.Lock()
		p.rtt = time.Since(time.Unix(0, sent))
		p.crit.Unlock()
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("wsnet: read: %w", err)
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(p.opts.PongWait))

		e, err := decode(data)
		if err != nil {
			logger.Logf(p.opts.Log, "wsnet", "discarding malformed message: %v", err)
			continue
		}

		p.crit.Lock()
		switch e.Kind {
		case kindInput:
			// the sender can only speak for the player agreed in the handshake
			p.inputs = append(p.inputs, session.ConfirmedInput{Frame: e.Frame, Player: p.remote, Value: e.Value})
		case kindChecksum:
			p.checksums = append(p.checksums, session.PeerChecksum{Frame: e.Frame, Hash: e.Hash})
		case kindBye:
			p.crit.Unlock()
			return nil
		default:
			logger.Logf(p.opts.Log, "wsnet", "unexpected message kind %d", e.Kind)
		}
		p.crit.Unlock()
	}
}

// writer sends queued messages and pings until the context is cancelled. the
// connection is closed when the writer ends, which in turn ends the reader
func (p *Peer) writer(ctx context.Context) error {
	defer p.conn.Close()

	ticker := time.NewTicker(p.opts.PingPeriod)
	defer ticker.Stop()

	write := func(e envelope) error {
		data, err := encode(e)
		if err != nil {
			return fmt.Errorf("wsnet: encode: %w", err)
		}
		_ = p.conn.SetWriteDeadline(time.Now().Add(p.opts.WriteWait))
		if err := p.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return fmt.Errorf("wsnet: write: %w", err)
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			// say goodbye if possible. errors don't matter at this point
			_ = write(envelope{Kind: kindBye})
			_ = p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(p.opts.WriteWait))
			return nil

		case e := <-p.send:
			if err := write(e); err != nil {
				return err
			}

		case <-ticker.C:
			payload := strconv.FormatInt(time.Now().UnixNano(), 10)
			if err := p.conn.WriteControl(websocket.PingMessage, []byte(payload), time.Now().Add(p.opts.WriteWait)); err != nil {
				return fmt.Errorf("wsnet: ping: %w", err)
			}
		}
	}
}

func (p *Peer) queue(e envelope) error {
	select {
	case <-p.done:
		return session.ErrClosed
	default:
	}

	select {
	case p.send <- e:
		return nil
	case <-p.done:
		return session.ErrClosed
	}
}

// ID returns the session id agreed during the handshake.
func (p *Peer) ID() uuid.UUID {
	return p.id
}

// LocalPlayer returns the player index of this peer.
func (p *Peer) LocalPlayer() int {
	return p.player
}

// RemotePlayer returns the player index of the other peer.
func (p *Peer) RemotePlayer() int {
	return p.remote
}

// Setup returns the match setup decided by the hosting peer.
func (p *Peer) Setup() battle.Setup {
	return p.setup
}

// Horizon returns the rollback horizon decided by the hosting peer. Zero means
// the driver default.
func (p *Peer) Horizon() int {
	return p.horizon
}

// PollConfirmedInputs implements the session.Session interface.
func (p *Peer) PollConfirmedInputs() []session.ConfirmedInput {
	p.crit.Lock()
	defer p.crit.Unlock()
	in := p.inputs
	p.inputs = nil
	return in
}

// PollPeerChecksums implements the session.Session interface.
func (p *Peer) PollPeerChecksums() []session.PeerChecksum {
	p.crit.Lock()
	defer p.crit.Unlock()
	c := p.checksums
	p.checksums = nil
	return c
}

// SubmitLocalInput implements the session.Session interface.
func (p *Peer) SubmitLocalInput(frame int, value input.Value) error {
	return p.queue(envelope{Kind: kindInput, Frame: frame, Player: p.player, Value: value})
}

// SubmitChecksum implements the session.Session interface.
func (p *Peer) SubmitChecksum(frame int, hash uint64) error {
	return p.queue(envelope{Kind: kindChecksum, Frame: frame, Hash: hash})
}

// Stats implements the session.Session interface.
func (p *Peer) Stats() session.Stats {
	p.crit.Lock()
	defer p.crit.Unlock()
	return session.Stats{RoundTrip: p.rtt}
}

// Status implements the session.Session interface.
func (p *Peer) Status() session.Status {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.status
}

// Err returns the reason the session ended. Nil if the session is still
// connected or ended normally.
func (p *Peer) Err() error {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.err
}

// Done returns a channel that is closed when the session has ended.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// Close implements the session.Session interface. Close waits for the
// connection to shut down.
func (p *Peer) Close() error {
	p.closeOnce.Do(func() {
		p.crit.Lock()
		p.closing = true
		p.crit.Unlock()
		p.cancel()
	})
	<-p.done
	return nil
}

// Host accepts a single peer connection. It implements the http.Handler
// interface so that it can be served by any http server.
type Host struct {
	player   int
	opts     Options
	id       uuid.UUID
	upgrader websocket.Upgrader

	crit      sync.Mutex
	connected bool

	accepted chan *Peer
}

// NewHost is the preferred method of initialisation for the Host type.
func NewHost(player int, opts Options) *Host {
	opts.normalise()
	return &Host{
		player: player,
		opts:   opts,
		id:     uuid.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		accepted: make(chan *Peer, 1),
	}
}

// ID returns the session id that will be given to the joining peer.
func (h *Host) ID() uuid.UUID {
	return h.id
}

// ServeHTTP implements the http.Handler interface.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.crit.Lock()
	if h.connected {
		h.crit.Unlock()
		http.Error(w, "session already has a peer", http.StatusConflict)
		return
	}
	h.connected = true
	h.crit.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logf(h.opts.Log, "wsnet", "upgrade: %v", err)
		h.release()
		return
	}

	agreed, err := handshake(conn, h.id, h.player, true, h.opts)
	if err != nil {
		logger.Logf(h.opts.Log, "wsnet", "%v", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(h.opts.WriteWait))
		_ = conn.Close()
		h.release()
		return
	}

	h.accepted <- newPeer(conn, h.player, agreed, h.opts)
}

// release allows another connection attempt after a failed one
func (h *Host) release() {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.connected = false
}

// Accept waits for a peer to connect and complete the handshake.
func (h *Host) Accept(ctx context.Context) (*Peer, error) {
	select {
	case p := <-h.accepted:
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Listen for a single peer on the address. The returned function waits for
// the peer.
func Listen(addr string, player int, opts Options) (net.Addr, func(ctx context.Context) (*Peer, error), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("wsnet: %w", err)
	}

	h := NewHost(player, opts)
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: h.opts.HandshakeTimeout,
	}
	go func() {
		_ = srv.Serve(ln)
	}()

	accept := func(ctx context.Context) (*Peer, error) {
		// the websocket connection is hijacked from the server and is not
		// affected by closing it
		defer srv.Close()
		return h.Accept(ctx)
	}

	logger.Logf(h.opts.Log, "wsnet", "hosting session %s on %s", h.id, ln.Addr())

	return ln.Addr(), accept, nil
}

// Host a session on the address and wait for a peer to join.
func HostSession(ctx context.Context, addr string, player int, opts Options) (*Peer, error) {
	_, accept, err := Listen(addr, player, opts)
	if err != nil {
		return nil, err
	}
	return accept(ctx)
}

// Join a session hosted at the websocket URL.
func Join(ctx context.Context, url string, player int, opts Options) (*Peer, error) {
	opts.normalise()

	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("wsnet: join: %w", err)
	}

	agreed, err := handshake(conn, uuid.Nil, player, false, opts)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(opts.WriteWait))
		_ = conn.Close()
		return nil, err
	}

	if agreed.setup != opts.Setup || agreed.horizon != opts.Horizon {
		logger.Logf(opts.Log, "wsnet", "adopting the host's match setup %+v and horizon %d", agreed.setup, agreed.horizon)
	}

	return newPeer(conn, player, agreed, opts), nil
}
