// Package smtppool manages SMTP connections to mail exchangers for the
// reachability probe. Connections are pooled per MX host and reused across
// probes via the RSET command, which keeps bulk runs from reconnecting for
// every address on the same domain.
package smtppool

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Config configures the pool.
type Config struct {
	HeloDomain      string
	MailFrom        string
	ConnectTimeout  time.Duration
	CommandTimeout  time.Duration
	Port            string
	MaxConnsPerHost int           // max idle connections kept per MX host
	MaxUsesPerConn  int           // probes per connection before reconnect
	MaxConnAge      time.Duration // max lifetime of a pooled connection
	// Dial is injectable for testing. Defaults to net.DialTimeout.
	Dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

// Pool holds SMTP connections keyed by MX host.
type Pool struct {
	cfg    Config
	mu     sync.Mutex
	idle   map[string][]*conn
	closed bool
}

type conn struct {
	nc      net.Conn
	r       *bufio.Reader
	w       *bufio.Writer
	born    time.Time
	uses    int
	greeted bool // banner read and EHLO exchanged
}

// New creates a pool. Zero-valued tuning fields get defaults.
func New(cfg Config) *Pool {
	if cfg.Dial == nil {
		cfg.Dial = net.DialTimeout
	}
	if cfg.Port == "" {
		cfg.Port = "25"
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = 3
	}
	if cfg.MaxUsesPerConn <= 0 {
		cfg.MaxUsesPerConn = 100
	}
	if cfg.MaxConnAge <= 0 {
		cfg.MaxConnAge = 5 * time.Minute
	}
	return &Pool{cfg: cfg, idle: make(map[string][]*conn)}
}

// Ping verifies that mxHost answers an SMTP handshake: connect, banner, EHLO.
// Returns the EHLO response code.
func (p *Pool) Ping(mxHost string) (code int, msg string, err error) {
	c, err := p.get(mxHost)
	if err != nil {
		return 0, "", err
	}

	code, msg, err = p.handshake(c)
	if err != nil {
		_ = c.nc.Close()
		return 0, "", err
	}

	p.put(mxHost, c)
	return code, msg, nil
}

// CheckRCPT runs a full mailbox probe on mxHost:
// handshake (new connections) or RSET (reused ones), then MAIL FROM and
// RCPT TO for email. Returns the RCPT TO response code.
func (p *Pool) CheckRCPT(mxHost, email string) (code int, msg string, err error) {
	c, err := p.get(mxHost)
	if err != nil {
		return 0, "", err
	}

	code, msg, err = p.probe(c, email)
	if err != nil {
		// Broken connection; do not return it to the pool.
		_ = c.nc.Close()
		return 0, "", err
	}

	p.put(mxHost, c)
	return code, msg, nil
}

// Close shuts down every pooled connection. The pool is unusable afterwards.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for host, conns := range p.idle {
		for _, c := range conns {
			quit(c)
			_ = c.nc.Close()
		}
		delete(p.idle, host)
	}
	return nil
}

func (p *Pool) get(mxHost string) (*conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errors.New("smtppool: pool is closed")
	}

	conns := p.idle[mxHost]
	for i := len(conns) - 1; i >= 0; i-- { // LIFO for locality
		c := conns[i]
		conns = append(conns[:i], conns[i+1:]...)
		if c.uses >= p.cfg.MaxUsesPerConn || time.Since(c.born) > p.cfg.MaxConnAge {
			quit(c)
			_ = c.nc.Close()
			continue
		}
		p.idle[mxHost] = conns
		return c, nil
	}
	p.idle[mxHost] = conns

	nc, err := p.cfg.Dial("tcp", net.JoinHostPort(mxHost, p.cfg.Port), p.cfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", mxHost, err)
	}
	return &conn{
		nc:   nc,
		r:    bufio.NewReader(nc),
		w:    bufio.NewWriter(nc),
		born: time.Now(),
	}, nil
}

func (p *Pool) put(mxHost string, c *conn) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.idle[mxHost]) >= p.cfg.MaxConnsPerHost {
		quit(c)
		_ = c.nc.Close()
		return
	}
	p.idle[mxHost] = append(p.idle[mxHost], c)
}

// handshake reads the banner and exchanges EHLO on fresh connections.
// On already-greeted connections it sends NOOP so a reused Ping still
// observes a live server.
func (p *Pool) handshake(c *conn) (int, string, error) {
	if err := c.nc.SetDeadline(time.Now().Add(p.cfg.CommandTimeout)); err != nil {
		return 0, "", fmt.Errorf("set deadline: %w", err)
	}

	if c.greeted {
		code, msg, err := c.command("NOOP\r\n")
		if err != nil {
			return 0, "", fmt.Errorf("NOOP failed: %w", err)
		}
		c.uses++
		return code, msg, nil
	}

	code, msg, err := readResponse(c.r)
	if err != nil {
		return 0, "", fmt.Errorf("read banner: %w", err)
	}
	if code >= 500 {
		return 0, "", fmt.Errorf("server rejected connection: %d %s", code, msg)
	}

	code, msg, err = c.command(fmt.Sprintf("EHLO %s\r\n", p.cfg.HeloDomain))
	if err != nil {
		return 0, "", fmt.Errorf("EHLO failed: %w", err)
	}
	if code >= 400 {
		return 0, "", fmt.Errorf("EHLO rejected: %d %s", code, msg)
	}

	c.greeted = true
	c.uses++
	return code, msg, nil
}

// probe runs MAIL FROM + RCPT TO, preceded by a handshake or RSET.
func (p *Pool) probe(c *conn, email string) (int, string, error) {
	wasGreeted := c.greeted
	if _, _, err := p.handshake(c); err != nil {
		return 0, "", err
	}
	if wasGreeted {
		// Fresh transaction on the reused connection.
		code, msg, err := c.command("RSET\r\n")
		if err != nil {
			return 0, "", fmt.Errorf("RSET failed: %w", err)
		}
		if code >= 400 {
			return 0, "", fmt.Errorf("RSET rejected: %d %s", code, msg)
		}
	}

	code, msg, err := c.command(fmt.Sprintf("MAIL FROM:<%s>\r\n", p.cfg.MailFrom))
	if err != nil {
		return 0, "", fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if code >= 500 {
		return code, msg, nil
	}
	if code >= 400 {
		return 0, "", fmt.Errorf("MAIL FROM temporary failure: %d %s", code, msg)
	}

	code, msg, err = c.command(fmt.Sprintf("RCPT TO:<%s>\r\n", email))
	if err != nil {
		return 0, "", fmt.Errorf("RCPT TO failed: %w", err)
	}
	return code, msg, nil
}

func (c *conn) command(cmd string) (int, string, error) {
	if _, err := c.w.WriteString(cmd); err != nil {
		return 0, "", err
	}
	if err := c.w.Flush(); err != nil {
		return 0, "", err
	}
	return readResponse(c.r)
}

// quit sends QUIT best-effort before closing.
func quit(c *conn) {
	_ = c.nc.SetDeadline(time.Now().Add(2 * time.Second))
	_, _ = c.w.WriteString("QUIT\r\n")
	_ = c.w.Flush()
}

// readResponse reads a possibly multi-line SMTP response.
func readResponse(r *bufio.Reader) (code int, full string, err error) {
	var lines []string
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil {
			return 0, "", fmt.Errorf("read SMTP response: %w", readErr)
		}
		line = strings.TrimRight(line, "\r\n")
		if len(line) < 3 {
			return 0, "", errors.New("SMTP response line too short")
		}
		lines = append(lines, line)
		// A '-' after the code marks a continuation line.
		if len(line) < 4 || line[3] != '-' {
			break
		}
	}

	last := lines[len(lines)-1]
	if _, err := fmt.Sscanf(last[:3], "%d", &code); err != nil {
		return 0, "", fmt.Errorf("invalid SMTP response code %q: %w", last[:3], err)
	}
	return code, strings.Join(lines, " | "), nil
}
