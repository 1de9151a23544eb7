// Package deriv speaks the venue's websocket protocol: one ordered
// stream carrying JSON request/response pairs with no request tagging,
// so every call is strictly send-then-receive.
package deriv

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sniper-art710/Deriv-botss/internal/metrics"
)

const (
	dialAttempts       = 3
	handshakeTimeout   = 10 * time.Second
	defaultCallTimeout = 30 * time.Second
)

// backoffBase scales the retry delay; tests shrink it.
var backoffBase = time.Second

// Session is a live connection to the venue. All request/response pairs
// go through Call, which holds a mutex across the send and the matching
// receive: the stream has no request ids, so interleaved writers would
// misalign replies.
type Session struct {
	conn        *websocket.Conn
	mu          sync.Mutex
	log         zerolog.Logger
	callTimeout time.Duration
	authorized  bool

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the venue, retrying up to three times with
// exponential backoff plus jitter. Exhausting the budget is terminal
// for the run.
func Dial(ctx context.Context, endpoint string, log zerolog.Logger) (*Session, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	var lastErr error
	for attempt := 0; attempt < dialAttempts; attempt++ {
		metrics.DialAttempts.Inc()
		log.Info().Int("attempt", attempt+1).Str("endpoint", endpoint).Msg("connecting to venue")

		conn, _, err := dialer.DialContext(ctx, endpoint, nil)
		if err == nil {
			log.Info().Msg("connected")
			return &Session{conn: conn, log: log, callTimeout: defaultCallTimeout}, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == dialAttempts-1 {
			break
		}

		wait := backoff(attempt)
		log.Warn().Err(err).Dur("backoff", wait).Int("attempt", attempt+1).Int("max", dialAttempts).
			Msg("connection failed, retrying")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("connect: %d attempts exhausted: %w", dialAttempts, lastErr)
}

// backoff returns 2^attempt seconds plus up to one second of jitter.
func backoff(attempt int) time.Duration {
	return time.Duration((math.Pow(2, float64(attempt)) + rand.Float64()) * float64(backoffBase))
}

// Authorize performs the single authorization round-trip. On an error
// envelope the session stays open but unauthorized; the caller decides
// to close it. No retries.
func (s *Session) Authorize(ctx context.Context, token string) error {
	var resp authorizeResponse
	if err := s.Call(ctx, authorizeRequest{Authorize: token}, &resp); err != nil {
		return err
	}
	if resp.Authorize == nil {
		return fmt.Errorf("authorize: response carries no account payload")
	}
	s.authorized = true
	s.log.Info().Str("loginid", resp.Authorize.LoginID).
		Float64("balance", resp.Authorize.Balance).Str("currency", resp.Authorize.Currency).
		Msg("authorized")
	return nil
}

// Authorized reports whether Authorize has succeeded on this session.
func (s *Session) Authorized() bool { return s.authorized }

// Call sends one request and reads exactly one reply into resp. If the
// reply carries the venue's error envelope, that envelope is returned as
// a *APIError; any other error is a transport failure.
func (s *Session) Call(ctx context.Context, req any, resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(s.callTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	_ = s.conn.SetWriteDeadline(deadline)
	if err := s.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	_ = s.conn.SetReadDeadline(deadline)
	if err := s.conn.ReadJSON(resp); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if apiErr := resp.apiErr(); apiErr != nil {
		return apiErr
	}
	return nil
}

// Close tears down the transport. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
		s.log.Info().Msg("connection closed")
	})
	return s.closeErr
}
