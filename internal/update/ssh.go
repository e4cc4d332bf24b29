/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package update

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	sshHandshakeTimeout = 10 * time.Second
	sshRetryInterval    = 5 * time.Second
)

var (
	ErrUnreachable   = errors.New("instance did not accept an ssh connection")
	ErrSessionInit   = errors.New("failed to begin ssh session")
	ErrCommandFailed = errors.New("update command did not exit cleanly")
)

// SSHUpdater runs commands on the instance over ssh inside a single shell session
type SSHUpdater struct {
	User     string
	Port     int
	Signer   ssh.Signer
	Shell    string
	Commands []string

	// HostKeyCallback verifies the instance; nil accepts any host key
	HostKeyCallback ssh.HostKeyCallback

	// RetryInterval is the pause between connection attempts
	RetryInterval time.Duration
}

// NewSSHUpdater builds an SSHUpdater, loading the private key and optional known hosts file
func NewSSHUpdater(cfg config.SSHConfig) (*SSHUpdater, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("ssh updater requires a user")
	}
	if cfg.KeyFile == "" {
		return nil, fmt.Errorf("ssh updater requires a key file")
	}
	if len(cfg.Commands) == 0 {
		return nil, fmt.Errorf("ssh updater requires at least one command")
	}

	pemBytes, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key '%s': %w", cfg.KeyFile, err)
	}

	signer, err := ssh.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh key '%s': %w", cfg.KeyFile, err)
	}

	u := &SSHUpdater{
		User:          cfg.User,
		Port:          cfg.Port,
		Signer:        signer,
		Shell:         cfg.Shell,
		Commands:      cfg.Commands,
		RetryInterval: sshRetryInterval,
	}

	if cfg.KnownHosts != "" {
		callback, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts '%s': %w", cfg.KnownHosts, err)
		}
		u.HostKeyCallback = callback
	}

	return u, nil
}

// Apply connects to address, retrying until ctx is done, and runs the commands
func (u *SSHUpdater) Apply(ctx context.Context, address string) error {
	log := clog.FromContext(ctx)

	client, err := u.connect(ctx, address)
	if err != nil {
		return err
	}
	defer client.Close()

	// Closing the client unblocks a session stuck on a dead connection
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	stdout, stderr, err := u.execIn(client)
	log.Debug("update output", "address", address, "stdout", stdout, "stderr", stderr)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("update on %s interrupted: %w", address, ctx.Err())
		}
		return fmt.Errorf("update on %s: %w", address, err)
	}

	return nil
}

// connect dials until a connection succeeds or ctx is done; sshd is often not
// ready right after an instance changes hands
func (u *SSHUpdater) connect(ctx context.Context, address string) (*ssh.Client, error) {
	log := clog.FromContext(ctx)

	port := u.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}
	target := net.JoinHostPort(address, strconv.Itoa(port))

	hostKeyCallback := u.HostKeyCallback
	if hostKeyCallback == nil {
		log.Warn("host key of the detached instance is not verified; set known_hosts in the ssh updater settings", "address", address)
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	clientConfig := &ssh.ClientConfig{
		User:            u.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(u.Signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         sshHandshakeTimeout,
	}

	interval := u.RetryInterval
	if interval <= 0 {
		interval = sshRetryInterval
	}

	for attempt := 1; ; attempt++ {
		client, err := dial(ctx, target, clientConfig)
		if err == nil {
			return client, nil
		}

		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnreachable, target, err)
		}

		log.Debug("ssh connection failed, retrying", "target", target, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrUnreachable, target, attempt, err)
		case <-time.After(interval):
		}
	}
}

func dial(ctx context.Context, target string, clientConfig *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: clientConfig.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, target, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return ssh.NewClient(c, chans, reqs), nil
}

// execIn feeds every command to one shell over stdin so they share state such as the working directory
func (u *SSHUpdater) execIn(client *ssh.Client) (string, string, error) {
	shell := u.Shell
	if shell == "" {
		shell = config.DefaultSSHShell
	}

	session, err := client.NewSession()
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrSessionInit, err)
	}
	defer session.Close()

	stdinr, stdinw := io.Pipe()
	defer stdinr.Close()
	session.Stdin = stdinr

	stdout := new(bytes.Buffer)
	session.Stdout = stdout
	stderr := new(bytes.Buffer)
	session.Stderr = stderr

	if err := session.Start(shell); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	for _, cmd := range u.Commands {
		if _, err := stdinw.Write([]byte(cmd + "\n")); err != nil {
			_ = stdinw.Close()
			return stdout.String(), stderr.String(), fmt.Errorf("failed to send command: %w", err)
		}
	}

	// EOF on stdin ends the shell once the commands are consumed
	if err := stdinw.Close(); err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("failed to close stdin: %w", err)
	}

	if err := session.Wait(); err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	return stdout.String(), stderr.String(), nil
}
