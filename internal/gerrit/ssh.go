package gerrit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultPort - порт SSH-интерфейса Gerrit.
const DefaultPort = 29418

const (
	connectAttempts = 3
	connectDelay    = 3 * time.Second
	dialTimeout     = 30 * time.Second
)

// SSHConfig - параметры подключения к Gerrit по SSH.
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	KeyFile    string
	KnownHosts string
}

// SSHRunner выполняет команды Gerrit через одно SSH-соединение.
type SSHRunner struct {
	mu     sync.Mutex
	addr   string
	config *ssh.ClientConfig
	client *ssh.Client
	delay  time.Duration
	logger logrus.FieldLogger
}

// NewSSHRunner готовит параметры аутентификации. Соединение устанавливается при первом запросе.
// Используются ключ из KeyFile и ssh-agent из SSH_AUTH_SOCK, если они доступны.
func NewSSHRunner(cfg SSHConfig, logger logrus.FieldLogger) (*SSHRunner, error) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	var auth []ssh.AuthMethod
	if cfg.KeyFile != "" {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ssh key %s: %w", cfg.KeyFile, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			logger.WithError(err).Warn("ssh-agent is not reachable")
		} else {
			auth = append(auth, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}
	if len(auth) == 0 {
		logger.Warn("No ssh key or agent available, gerrit queries will fail unless cached")
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHosts != "" {
		cb, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		hostKeyCallback = cb
	} else {
		logger.Warn("Host key verification disabled, set GERRIT_KNOWN_HOSTS to enable it")
	}

	return &SSHRunner{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		config: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            auth,
			HostKeyCallback: hostKeyCallback,
			Timeout:         dialTimeout,
		},
		delay:  connectDelay,
		logger: logger,
	}, nil
}

// Run запускает команду и возвращает ее stdout.
func (r *SSHRunner) Run(ctx context.Context, cmd string) (io.ReadCloser, error) {
	session, err := r.newSession(ctx)
	if err != nil {
		return nil, err
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to attach stdout: %w", err)
	}
	stderr := &bytes.Buffer{}
	session.Stderr = stderr

	r.logger.WithField("cmd", cmd).Debug("Running gerrit command")
	if err := session.Start(cmd); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start %q: %w", cmd, err)
	}

	return &sessionOutput{Reader: stdout, session: session, stderr: stderr}, nil
}

// Close закрывает SSH-соединение.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// newSession открывает сессию на текущем соединении.
// Если сервер разорвал соединение, оно устанавливается заново один раз.
func (r *SSHRunner) newSession(ctx context.Context) (*ssh.Session, error) {
	client, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err == nil {
		return session, nil
	}

	r.logger.WithError(err).WithField("addr", r.addr).Warn("Gerrit connection lost, reconnecting")
	r.drop(client)

	client, err = r.connect(ctx)
	if err != nil {
		return nil, err
	}
	session, err = client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open ssh session: %w", err)
	}
	return session, nil
}

// drop закрывает соединение и забывает его, если оно еще текущее.
func (r *SSHRunner) drop(client *ssh.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == client {
		r.client = nil
	}
	client.Close()
}

func (r *SSHRunner) connect(ctx context.Context) (*ssh.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewConstant(r.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		client, err := r.dial(ctx)
		if err != nil {
			r.logger.WithError(err).WithField("addr", r.addr).Warn("Gerrit connection attempt failed")
			return retry.RetryableError(err)
		}
		r.client = client
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", r.addr, err)
	}

	return r.client, nil
}

func (r *SSHRunner) dial(ctx context.Context) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: r.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, r.addr, r.config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

type sessionOutput struct {
	io.Reader
	session *ssh.Session
	stderr  *bytes.Buffer
}

// Close дочитывает вывод, дожидается завершения команды и закрывает сессию.
func (o *sessionOutput) Close() error {
	_, _ = io.Copy(io.Discard, o.Reader)
	err := o.session.Wait()
	o.session.Close()
	if err != nil {
		return fmt.Errorf("gerrit command failed: %v: %s", err, strings.TrimSpace(o.stderr.String()))
	}
	return nil
}
