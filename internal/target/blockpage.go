package target

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ksyq12/certdeploy/internal/deployconf"
	"github.com/ksyq12/certdeploy/internal/errors"
	"github.com/ksyq12/certdeploy/internal/executor"
	"github.com/ksyq12/certdeploy/internal/logger"
	"github.com/ksyq12/certdeploy/internal/platform"
	"github.com/ksyq12/certdeploy/internal/renewal"
)

// backupStamp is the suffix layout for timestamped backups.
const backupStamp = "20060102-150405"

// Blockpage installs the renewed PEM files into a block-page appliance's
// directory, keeping timestamped backups of whatever was installed before,
// and signals the serving process to reload.
type Blockpage struct {
	exec executor.CommandExecutor
}

// NewBlockpage creates the file-copy-and-restart target
func NewBlockpage(exec executor.CommandExecutor) *Blockpage {
	return &Blockpage{exec: exec}
}

func init() {
	Register("blockpage", func(o Options) Target { return NewBlockpage(o.exec()) })
}

// Name returns the target name
func (b *Blockpage) Name() string {
	return "blockpage"
}

// Key returns the deploy.json section key
func (b *Blockpage) Key() string {
	return "blockpage"
}

// Required returns the key paths that must be configured
func (b *Blockpage) Required() []string {
	return []string{
		"blockpage.installDir",
		"blockpage.service",
	}
}

// Deploy copies the chain and key into the install directory and reloads the
// service.
//
// A missing install directory is a soft skip, not an error: the appliance
// software may simply not be present on this host. A failed reload signal is
// only a warning, because the certificate files are already in place and the
// next service restart picks them up.
func (b *Blockpage) Deploy(rc *renewal.Context, doc *deployconf.Document) error {
	installDir := doc.GetString("blockpage.installDir", "")
	service := doc.GetString("blockpage.service", "")
	certName := doc.GetString("blockpage.certFile", "cert.pem")
	keyName := doc.GetString("blockpage.keyFile", "key.pem")

	if _, err := os.Stat(installDir); os.IsNotExist(err) {
		logger.Step("blockpage: install directory %s not found, skipping", installDir)
		return errors.Skip("blockpage", "install directory not found")
	}

	stamp := time.Now().Format(backupStamp)
	for _, name := range []string{certName, keyName} {
		installed := filepath.Join(installDir, name)
		if _, err := os.Stat(installed); err != nil {
			continue
		}
		backup := installed + "." + stamp
		if err := os.Rename(installed, backup); err != nil {
			return errors.Transfer("blockpage", fmt.Sprintf("failed to back up %s", name), err)
		}
		logger.Step("blockpage: backed up %s to %s", installed, backup)
	}

	if err := copyFile(rc.FullchainPath(), filepath.Join(installDir, certName), 0644); err != nil {
		return errors.Transfer("blockpage", "failed to install certificate", err)
	}
	if err := copyFile(rc.KeyPath(), filepath.Join(installDir, keyName), 0600); err != nil {
		return errors.Transfer("blockpage", "failed to install private key", err)
	}
	logger.Step("blockpage: installed %s and %s into %s", certName, keyName, installDir)

	reload := platform.ReloadCommand(b.exec, service)
	if out, err := b.exec.Execute(reload[0], reload[1:]...); err != nil {
		logger.Warn("blockpage: reload of %s failed: %v: %s", service, err, strings.TrimSpace(string(out)))
		logger.Step("blockpage: reload failed, certificate files are in place for next restart")
		return nil
	}
	logger.Step("blockpage: reloaded %s", service)

	return nil
}

// copyFile copies src to dst with the given mode, truncating any existing
// file.
func copyFile(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, mode)
}
