package report

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/talkincode/bodega/config"
)

// SFTPConnect opens an sftp session; the closer releases the transport.
type SFTPConnect func(ctx context.Context) (*sftp.Client, io.Closer, error)

// SFTPSharer uploads report artifacts into a remote directory. Recipients
// do not apply to an upload and are ignored.
type SFTPSharer struct {
	connect SFTPConnect
	dir     string
}

var _ Sharer = (*SFTPSharer)(nil)

func NewSFTPSharer(cfg config.SFTPConfig) *SFTPSharer {
	return NewSFTPSharerWith(dialSFTP(cfg), cfg.Dir)
}

func NewSFTPSharerWith(connect SFTPConnect, dir string) *SFTPSharer {
	if dir == "" {
		dir = "/"
	}
	return &SFTPSharer{connect: connect, dir: dir}
}

func dialSFTP(cfg config.SFTPConfig) SFTPConnect {
	return func(ctx context.Context) (*sftp.Client, io.Closer, error) {
		hostKey := ssh.InsecureIgnoreHostKey() //nolint:gosec // G106: opt-in when no host_key is configured
		if cfg.HostKey != "" {
			pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(cfg.HostKey))
			if err != nil {
				return nil, nil, errors.Wrap(err, "parse sftp host key")
			}
			hostKey = ssh.FixedHostKey(pub)
		}
		addr := net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port))
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, err
		}
		c, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.Password(cfg.Passwd)},
			HostKeyCallback: hostKey,
			Timeout:         15 * time.Second,
		})
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		sshClient := ssh.NewClient(c, chans, reqs)
		client, err := sftp.NewClient(sshClient)
		if err != nil {
			_ = sshClient.Close()
			return nil, nil, err
		}
		return client, sshClient, nil
	}
}

func (s *SFTPSharer) Share(ctx context.Context, _ string, artifacts []Artifact, _ ...string) error {
	if len(artifacts) == 0 {
		return errors.New("nothing to share")
	}
	client, closer, err := s.connect(ctx)
	if err != nil {
		return errors.Wrap(err, "connect sftp")
	}
	defer func() {
		_ = client.Close()
		if closer != nil {
			_ = closer.Close()
		}
	}()

	if err := client.MkdirAll(s.dir); err != nil {
		return errors.Wrapf(err, "mkdir %s", s.dir)
	}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		remote := path.Join(s.dir, a.Name)
		f, err := client.Create(remote)
		if err != nil {
			return errors.Wrapf(err, "create %s", remote)
		}
		_, err = f.Write(a.Data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "upload %s", remote)
		}
	}
	zap.L().Info("report uploaded",
		zap.String("namespace", "report"),
		zap.String("dir", s.dir),
		zap.Int("files", len(artifacts)),
	)
	return nil
}
