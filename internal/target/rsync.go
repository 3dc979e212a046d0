package target

import (
	"fmt"
	"strings"

	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// Rsync transfers the public and private certificate halves to a remote
// host and applies ownership and mode per side, the same copy-chown-chmod
// pattern as the local PKCS#12 export applied over ssh.
type Rsync struct {
	exec executor.CommandExecutor
}

// NewRsync creates the generic remote sync target
func NewRsync(exec executor.CommandExecutor) *Rsync {
	return &Rsync{exec: exec}
}

func init() {
	Register("rsync", func(o Options) Target { return NewRsync(o.exec()) })
}

// Name returns the target name
func (r *Rsync) Name() string {
	return "rsync"
}

// Key returns the deploy.json section key
func (r *Rsync) Key() string {
	return "rsync"
}

// Required returns the key paths that must be configured
func (r *Rsync) Required() []string {
	return []string{
		"rsync.host",
		"rsync.user",
		"rsync.keyFile",
		"rsync.certDest",
		"rsync.certOwner",
		"rsync.certGroup",
		"rsync.keyDest",
		"rsync.keyOwner",
		"rsync.keyGroup",
	}
}

// side describes one half of the transfer.
type side struct {
	label string
	src   string
	dest  string
	owner string
	group string
	mode  string
}

// Deploy pushes both halves to the remote host. Both sides must succeed;
// the optional reload command afterwards is best effort.
func (r *Rsync) Deploy(rc *renewal.Context, doc *deployconf.Document) error {
	host := doc.GetString("rsync.host", "")
	user := doc.GetString("rsync.user", "")
	keyFile := doc.GetString("rsync.keyFile", "")

	sides := []side{
		{
			label: "certificate",
			src:   rc.FullchainPath(),
			dest:  doc.GetString("rsync.certDest", ""),
			owner: doc.GetString("rsync.certOwner", ""),
			group: doc.GetString("rsync.certGroup", ""),
			mode:  doc.GetString("rsync.certMode", "644"),
		},
		{
			label: "private key",
			src:   rc.KeyPath(),
			dest:  doc.GetString("rsync.keyDest", ""),
			owner: doc.GetString("rsync.keyOwner", ""),
			group: doc.GetString("rsync.keyGroup", ""),
			mode:  doc.GetString("rsync.keyMode", "600"),
		},
	}

	sshCommand := fmt.Sprintf("ssh -i %s -o StrictHostKeyChecking=accept-new", keyFile)
	remote := fmt.Sprintf("%s@%s", user, host)

	for _, s := range sides {
		if out, err := r.exec.Execute("rsync", "-az", "-e", sshCommand, s.src, remote+":"+s.dest); err != nil {
			return errors.Transfer("rsync", fmt.Sprintf("%s transfer failed: %s", s.label, strings.TrimSpace(string(out))), err)
		}
		ownership := fmt.Sprintf("chown %s:%s %s && chmod %s %s", s.owner, s.group, s.dest, s.mode, s.dest)
		if out, err := r.exec.Execute("ssh", "-i", keyFile, remote, ownership); err != nil {
			return errors.Transfer("rsync", fmt.Sprintf("%s ownership failed: %s", s.label, strings.TrimSpace(string(out))), err)
		}
		logger.Step("rsync: %s synced to %s:%s (%s:%s mode %s)", s.label, host, s.dest, s.owner, s.group, s.mode)
	}

	if reloadCmd := doc.GetString("rsync.reloadCmd", ""); reloadCmd != "" {
		if out, err := r.exec.Execute("ssh", "-i", keyFile, remote, reloadCmd); err != nil {
			logger.Warn("rsync: remote reload failed: %v: %s", err, strings.TrimSpace(string(out)))
			logger.Step("rsync: remote reload failed, files are in place")
		} else {
			logger.Step("rsync: remote reload ran: %s", reloadCmd)
		}
	}

	return nil
}
