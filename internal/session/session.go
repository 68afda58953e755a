// =============================================================================
// Workshop Receipts - Session
// =============================================================================
//
// A Session holds the bookkeeping state of one operator working on one
// folder: the workshops, the roster and the payment log. It loads the three
// files, saves them back, and issues receipts.
//
// FAILURE HANDLING:
//   - Each file loads independently. A file that cannot be read or decoded
//     leaves its collection empty and produces an error notice; the others
//     still load.
//   - Every write that fails in the folder falls back to a download of the
//     same bytes, with an error notice.
//   - Without a folder the session is download-only and says so once.
//
// =============================================================================

package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/workshop-receipts/internal/config"
	"github.com/ginjaninja78/workshop-receipts/internal/csvparser"
	"github.com/ginjaninja78/workshop-receipts/internal/logging"
	"github.com/ginjaninja78/workshop-receipts/internal/logostore"
	"github.com/ginjaninja78/workshop-receipts/internal/receipt"
	"github.com/ginjaninja78/workshop-receipts/internal/records"
	"github.com/ginjaninja78/workshop-receipts/internal/schema"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
	"github.com/ginjaninja78/workshop-receipts/internal/xlsxparser"
	"github.com/ginjaninja78/workshop-receipts/pkg/utils"
)

// downloadOnlyAdvisory is shown the first time a file is handed out without a
// work folder.
const downloadOnlyAdvisory = "Sin carpeta de trabajo: los archivos se descargarán. (Seleccione carpeta para habilitar guardado directo)"

// LogoSlot persists the letterhead as a data URL.
type LogoSlot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, dataURL string) error
	Clear(ctx context.Context) error
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Session. Zero fields get defaults in New.
type Options struct {
	Files        config.FileNames
	Sheets       config.SheetNames
	ReceiptsRoot string
	Institution  receipt.Institution

	// PaymentMethod is used for receipts that do not name one.
	PaymentMethod types.PaymentMethod

	// Import controls CSV decoding in the Import* methods.
	Import csvparser.Settings

	Downloader utils.Downloader
	Logo       LogoSlot
	Logger     logging.Logger
	Notifier   Notifier

	// Clock returns the issue time of receipts.
	Clock func() time.Time
}

// OptionsFromConfig builds session options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Files:         cfg.Files,
		Sheets:        cfg.Sheets,
		ReceiptsRoot:  cfg.ReceiptsRoot,
		Institution:   cfg.Institution,
		PaymentMethod: cfg.PaymentMethod(),
		Import:        cfg.Import,
		Downloader:    utils.NewDownloadDir(cfg.DownloadsDir),
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the in-memory bookkeeping state. It is not safe for concurrent
// use; commands run one at a time.
type Session struct {
	opts Options

	folder  utils.Folder
	advised bool

	workshops types.Workshops
	roster    *types.Roster
	log       []types.PaymentLogEntry
	logo      *receipt.Logo

	numbers *Numberer
}

// New creates an empty, download-only session.
func New(opts Options) *Session {
	if opts.Files == (config.FileNames{}) {
		opts.Files = config.FileNames{Workshops: "talleres.xlsx", Roster: "inscriptos.xlsx", PaymentLog: "registro_pagos.xlsx"}
	}
	if opts.Sheets == (config.SheetNames{}) {
		opts.Sheets = config.SheetNames{Workshops: records.SheetWorkshops, Roster: records.SheetRoster, PaymentLog: records.SheetPaymentLog}
	}
	if opts.ReceiptsRoot == "" {
		opts.ReceiptsRoot = "Recibos"
	}
	if opts.Institution == (receipt.Institution{}) {
		opts.Institution = receipt.DefaultInstitution()
	}
	if opts.PaymentMethod == "" {
		opts.PaymentMethod = types.PaymentCash
	}
	if opts.Import.Delimiter == "" {
		opts.Import.Delimiter = ","
	}
	if opts.Downloader == nil {
		opts.Downloader = utils.NewDownloadDir(".")
	}
	if opts.Logo == nil {
		opts.Logo = &logostore.MemorySlot{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Notice) {})
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Session{
		opts:    opts,
		roster:  types.NewRoster(),
		numbers: NewNumberer(),
	}
}

// Workshops returns the loaded workshops.
func (s *Session) Workshops() types.Workshops {
	return append(types.Workshops(nil), s.workshops...)
}

// Roster returns the roster. Callers must not modify it directly.
func (s *Session) Roster() *types.Roster {
	return s.roster
}

// PaymentLog returns the payment log entries.
func (s *Session) PaymentLog() []types.PaymentLogEntry {
	return append([]types.PaymentLogEntry(nil), s.log...)
}

// DownloadOnly reports whether the session has no work folder.
func (s *Session) DownloadOnly() bool {
	return s.folder == nil
}

// =============================================================================
// OPENING A FOLDER
// =============================================================================

// LoadSummary describes the outcome of Open.
type LoadSummary struct {
	// Found counts files read successfully.
	Found int

	// Created counts missing files written with a header row only.
	Created int

	// Errors holds one error per file that could not be loaded or created.
	Errors []error
}

// Open loads the bookkeeping files from folder.
//
// PARAMETERS:
//   - folder: The work folder, or nil to run download-only.
//
// RETURNS:
//   - A summary. Failures are per file and never stop the other files.
func (s *Session) Open(folder utils.Folder) *LoadSummary {
	summary := &LoadSummary{}
	s.folder = folder
	s.advised = false

	if folder == nil {
		s.workshops = nil
		s.roster = types.NewRoster()
		s.setLog(nil)
		s.notify(NoticeInfo, "No se seleccionó ninguna carpeta.")
		return summary
	}

	s.opts.Logger.Info("Opening folder %s", folder.Name())

	s.loadInto(summary, s.opts.Files.Workshops, schema.Workshops, s.opts.Sheets.Workshops, s.applyWorkshops)
	s.loadInto(summary, s.opts.Files.Roster, schema.Roster, s.opts.Sheets.Roster, s.applyRoster)
	s.loadInto(summary, s.opts.Files.PaymentLog, schema.PaymentLog, s.opts.Sheets.PaymentLog, s.applyPaymentLog)

	if len(summary.Errors) > 0 {
		msgs := make([]string, len(summary.Errors))
		for i, err := range summary.Errors {
			msgs[i] = err.Error()
		}
		s.notify(NoticeError, strings.Join(msgs, " "))
	}

	return summary
}

// applyFunc decodes a grid into the session. It returns a one-line
// description of what was loaded.
type applyFunc func(name string, grid [][]string) (string, error)

func (s *Session) loadInto(summary *LoadSummary, name string, sch schema.Schema, sheet string, apply applyFunc) {
	data, err := s.folder.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		apply(name, nil)
		if err := s.createEmpty(name, sch, sheet); err != nil {
			summary.Errors = append(summary.Errors, fmt.Errorf("Error al procesar/crear %s: %w", name, err))
			return
		}
		summary.Created++
		s.notify(NoticeInfo, fmt.Sprintf("Archivo %s no encontrado. %s creado con éxito.", name, name))
		return
	}
	if err != nil {
		apply(name, nil)
		summary.Errors = append(summary.Errors, fmt.Errorf("Error al procesar/crear %s: %w", name, err))
		return
	}

	msg, err := s.decodeInto(name, data, apply)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Errorf("Error al procesar/crear %s: %w", name, err))
		return
	}
	summary.Found++
	s.notify(NoticeSuccess, msg)
}

func (s *Session) createEmpty(name string, sch schema.Schema, sheet string) error {
	data, err := records.EmptyWorkbook(sch, sheet)
	if err != nil {
		return err
	}
	return s.folder.WriteFile(name, data)
}

// decodeInto decodes a file and applies it. On failure the collection is
// reset to empty.
func (s *Session) decodeInto(name string, data []byte, apply applyFunc) (string, error) {
	grid, err := decodeGrid(name, data, s.opts.Import)
	if err == nil {
		var msg string
		if msg, err = apply(name, grid); err == nil {
			return msg, nil
		}
	}

	s.opts.Logger.Error("Failed to load %s: %v", name, err)
	apply(name, nil)
	return "", err
}

// decodeGrid picks the codec from the file extension.
func decodeGrid(name string, data []byte, settings csvparser.Settings) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return csvparser.Decode(data, settings)
	}
	return xlsxparser.Acquire().Decode(data)
}

func (s *Session) reportWarning(name string, report records.Report) {
	if report.Warning != "" {
		s.opts.Logger.Warn("%s: %s", name, report.Warning)
		s.notify(NoticeInfo, fmt.Sprintf("%s: %s", name, report.Warning))
	}
	if report.Dropped > 0 {
		s.opts.Logger.Debug("%s: %d of %d rows dropped", name, report.Dropped, report.Rows)
	}
}

func (s *Session) applyWorkshops(name string, grid [][]string) (string, error) {
	ws, report, err := records.DecodeWorkshops(grid)
	if err != nil {
		s.workshops = nil
		return "", err
	}
	s.workshops = ws
	s.reportWarning(name, report)
	return fmt.Sprintf("Talleres cargados desde %s (%d).", name, len(ws)), nil
}

func (s *Session) applyRoster(name string, grid [][]string) (string, error) {
	roster, report, err := records.DecodeRoster(grid)
	if err != nil {
		s.roster = types.NewRoster()
		return "", err
	}
	s.roster = roster
	s.reportWarning(name, report)
	return fmt.Sprintf("Alumnos cargados desde %s (%d en %d listas).", name, roster.Len(), len(roster.WorkshopIDs())), nil
}

func (s *Session) applyPaymentLog(name string, grid [][]string) (string, error) {
	entries, report, err := records.DecodePaymentLog(grid)
	if err != nil {
		s.setLog(nil)
		return "", err
	}
	s.setLog(entries)
	s.reportWarning(name, report)
	return fmt.Sprintf("Registro de pagos cargado desde %s (%d entradas).", name, len(entries)), nil
}

func (s *Session) setLog(entries []types.PaymentLogEntry) {
	s.log = entries
	s.numbers = NewNumberer()
	for _, e := range entries {
		s.numbers.Observe(e.ReceiptNumber)
	}
}

// =============================================================================
// IMPORTS
// =============================================================================

// ImportWorkshops replaces the workshops with the contents of a file.
// .csv files are read with the import CSV settings, anything else as xlsx.
func (s *Session) ImportWorkshops(name string, data []byte) error {
	return s.importFile(name, data, s.applyWorkshops)
}

// ImportRoster replaces the roster with the contents of a file.
func (s *Session) ImportRoster(name string, data []byte) error {
	return s.importFile(name, data, s.applyRoster)
}

// ImportPaymentLog replaces the payment log with the contents of a file.
func (s *Session) ImportPaymentLog(name string, data []byte) error {
	return s.importFile(name, data, s.applyPaymentLog)
}

func (s *Session) importFile(name string, data []byte, apply applyFunc) error {
	msg, err := s.decodeInto(name, data, apply)
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al procesar %s: %v", name, err))
		return fmt.Errorf("failed to import %s: %w", name, err)
	}
	s.notify(NoticeSuccess, msg)
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// saved describes where a file ended up.
type saved struct {
	Path       string
	Downloaded bool
	Fallback   bool
}

// save writes a file into the folder, or downloads it when there is no
// folder or the write fails.
//
// PARAMETERS:
//   - segments: Child folders below the work folder.
//   - name: The file name.
//   - data: The file contents.
//   - label: How the file is named in the fallback notice.
func (s *Session) save(segments []string, name string, data []byte, label string) (saved, error) {
	if s.folder == nil {
		s.advise()
		path, err := s.opts.Downloader.Download(name, data)
		if err != nil {
			return saved{}, err
		}
		return saved{Path: path, Downloaded: true}, nil
	}

	path, err := utils.SaveInFolder(s.folder, segments, name, data)
	if err == nil {
		s.opts.Logger.Debug("Saved %s", path)
		return saved{Path: path}, nil
	}

	s.opts.Logger.Warn("Failed to save %s in folder: %v", name, err)
	s.notify(NoticeError, fmt.Sprintf("Error al guardar %s en carpeta: %v. Se descargará.", label, err))

	path, derr := s.opts.Downloader.Download(name, data)
	if derr != nil {
		return saved{}, fmt.Errorf("failed to save %s: %w; download also failed: %v", name, err, derr)
	}
	return saved{Path: path, Downloaded: true, Fallback: true}, nil
}

func (s *Session) advise() {
	if !s.advised {
		s.advised = true
		s.notify(NoticeInfo, downloadOnlyAdvisory)
	}
}

// savedMessage renders the success notice of a bookkeeping file.
func savedMessage(what, name string, res saved) string {
	switch {
	case res.Fallback:
		return fmt.Sprintf("%s descargado (error al guardar en carpeta): %s", name, res.Path)
	case res.Downloaded:
		return fmt.Sprintf("%s descargado: %s", name, res.Path)
	}
	return fmt.Sprintf("%s en: %s", what, res.Path)
}

// SaveWorkshops writes the workshops file.
func (s *Session) SaveWorkshops() error {
	if len(s.workshops) == 0 {
		s.notify(NoticeInfo, "No hay talleres para guardar.")
		return nil
	}

	name := s.opts.Files.Workshops
	data, err := records.WorkshopsWorkbook(s.workshops, s.opts.Sheets.Workshops)
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al generar %s: %v", name, err))
		return fmt.Errorf("failed to encode workshops: %w", err)
	}

	res, err := s.save(nil, name, data, name)
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al guardar %s: %v", name, err))
		return err
	}
	s.notify(NoticeSuccess, savedMessage("Talleres guardados", name, res))
	return nil
}

// SaveRoster writes the roster file.
func (s *Session) SaveRoster() error {
	name := s.opts.Files.Roster
	data, err := records.RosterWorkbook(s.roster, s.opts.Sheets.Roster)
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al actualizar %s: %v", name, err))
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	res, err := s.save(nil, name, data, name)
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al actualizar %s: %v", name, err))
		return err
	}
	s.notify(NoticeSuccess, savedMessage("Alumnos actualizados", name, res))
	return nil
}

// SavePaymentLog writes the payment log file. An empty log is not written.
func (s *Session) SavePaymentLog() error {
	if len(s.log) == 0 {
		s.notify(NoticeInfo, "No hay pagos registrados para guardar/descargar.")
		return nil
	}

	name := s.opts.Files.PaymentLog
	data, err := records.PaymentLogWorkbook(s.log, s.opts.Sheets.PaymentLog)
	if err != nil {
		s.notify(NoticeError, "Error al generar el archivo XLSX del registro de pagos.")
		return fmt.Errorf("failed to encode payment log: %w", err)
	}

	res, err := s.save(nil, name, data, "registro")
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al guardar registro: %v", err))
		return err
	}
	s.notify(NoticeSuccess, savedMessage("Registro de pagos actualizado", name, res))
	return nil
}

// =============================================================================
// LOGO
// =============================================================================

// LoadLogo reads the stored letterhead. A stored value that cannot be
// decoded is kept as a broken logo and prints the error placeholder.
func (s *Session) LoadLogo(ctx context.Context) error {
	dataURL, err := s.opts.Logo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load logo: %w", err)
	}
	s.logo = receipt.LogoFromDataURL(dataURL)
	if s.logo != nil && s.logo.Broken != nil {
		s.opts.Logger.Warn("Stored logo is unreadable: %v", s.logo.Broken)
	}
	return nil
}

// Logo returns the current letterhead, or nil.
func (s *Session) Logo() *receipt.Logo {
	return s.logo
}

// SetLogo validates a PNG or JPEG image and stores it as the letterhead.
func (s *Session) SetLogo(ctx context.Context, data []byte) error {
	logo, err := receipt.DecodeLogo(data)
	if err != nil {
		s.notify(NoticeError, "El archivo debe ser una imagen PNG o JPEG de hasta 2 MB.")
		return err
	}
	if err := s.opts.Logo.Save(ctx, logo.DataURL()); err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al guardar el logo: %v", err))
		return fmt.Errorf("failed to save logo: %w", err)
	}
	s.logo = logo
	s.notify(NoticeSuccess, "Logo actualizado y guardado.")
	return nil
}

// ClearLogo removes the letterhead.
func (s *Session) ClearLogo(ctx context.Context) error {
	if err := s.opts.Logo.Clear(ctx); err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al eliminar el logo: %v", err))
		return fmt.Errorf("failed to clear logo: %w", err)
	}
	s.logo = nil
	s.notify(NoticeInfo, "Logo eliminado.")
	return nil
}
