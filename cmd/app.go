package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/internal/config"
	"github.com/ginjaninja78/workshop-receipts/internal/logging"
	"github.com/ginjaninja78/workshop-receipts/internal/logostore"
	"github.com/ginjaninja78/workshop-receipts/internal/session"
	"github.com/ginjaninja78/workshop-receipts/pkg/utils"
)

// =============================================================================
// APPLICATION BOOTSTRAP
// =============================================================================

// app is the state shared by one command invocation.
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	store   *logostore.Store
	session *session.Session
	out     io.Writer
}

// newApp loads the configuration, the settings store and the session.
//
// PARAMETERS:
//   - cmd: The running command. Notices are printed to its output.
//   - openFolder: Load the work folder. Commands that only touch settings
//     pass false.
//
// RETURNS:
//   - The application. Call close when done.
//   - An error if the configuration is invalid or the folder is unusable.
func newApp(cmd *cobra.Command, openFolder bool) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, verbose),
		out:    cmd.OutOrStdout(),
	}

	opts := session.OptionsFromConfig(cfg)
	opts.Logger = a.logger
	opts.Notifier = printer{w: a.out}

	store, err := logostore.Open(cfg.SettingsDB)
	if err != nil {
		a.logger.Warn("Settings database unavailable, the logo will not be kept: %v", err)
		opts.Logo = &logostore.MemorySlot{}
	} else {
		a.store = store
		opts.Logo = logostore.NewLogoSlot(store)
	}

	a.session = session.New(opts)
	if err := a.session.LoadLogo(cmd.Context()); err != nil {
		a.logger.Warn("%v", err)
	}

	if openFolder {
		if err := a.open(workFolder(cfg)); err != nil {
			a.close()
			return nil, err
		}
	}

	return a, nil
}

// workFolder resolves the folder: --folder, then configuration.
func workFolder(cfg *config.Config) string {
	if folderPath != "" {
		return folderPath
	}
	return cfg.WorkFolder
}

// open loads path into the session. An empty path runs download-only.
func (a *app) open(path string) error {
	if path == "" {
		a.session.Open(nil)
		return nil
	}

	folder, err := utils.OpenFolder(path)
	if err != nil {
		return err
	}
	a.logger.Debug("Work folder %s", folder.Path())
	a.session.Open(folder)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close settings database: %v", err)
		}
	}
}

// readInput reads a file named on the command line.
func readInput(path string) (name string, data []byte, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return filepath.Base(path), data, nil
}

// =============================================================================
// NOTICES
// =============================================================================

// printer writes notices one per line.
type printer struct {
	w io.Writer
}

// Notify implements session.Notifier.
func (p printer) Notify(n session.Notice) {
	mark := "•"
	switch n.Kind {
	case session.NoticeSuccess:
		mark = "✓"
	case session.NoticeError:
		mark = "✗"
	}
	fmt.Fprintf(p.w, "  %s %s\n", mark, n.Message)
}
