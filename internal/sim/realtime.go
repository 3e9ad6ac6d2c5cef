// internal/sim/realtime.go
package sim

import (
	"bufio"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/command"
)

// realtimeListener accepts instruction lines; nothing is ever written back.
type realtimeListener struct {
	ln  net.Listener
	arm *Arm
	log zerolog.Logger

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

func (r *realtimeListener) serve() {
	defer r.wg.Done()

	for {
		conn, err := r.ln.Accept()
		if err != nil {
			return
		}
		if !r.track(conn) {
			_ = conn.Close()
			return
		}

		r.wg.Add(1)
		go r.handle(conn)
	}
}

// track registers conn for shutdown. It reports false once close has run.
func (r *realtimeListener) track(conn net.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if r.conns == nil {
		r.conns = make(map[net.Conn]struct{})
	}
	r.conns[conn] = struct{}{}
	return true
}

func (r *realtimeListener) handle(conn net.Conn) {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		delete(r.conns, conn)
		r.mu.Unlock()
		_ = conn.Close()
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			r.log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("instruction rejected")
			continue
		}

		r.arm.Apply(cmd)
		r.log.Info().Str("instruction", cmd.String()).Msg("instruction accepted")
	}
}

func (r *realtimeListener) close() error {
	err := r.ln.Close()

	r.mu.Lock()
	r.closed = true
	for c := range r.conns {
		_ = c.Close()
	}
	r.mu.Unlock()

	r.wg.Wait()
	return err
}
