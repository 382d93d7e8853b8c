// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"ttconvert/config"
	"ttconvert/importer"
	"ttconvert/internal/timeutil"
	"ttconvert/output"
	"ttconvert/transform"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultMaxUploadBytes = 32 << 20

var dayNames = [transform.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	sessions *sessionStore
	mux      *http.ServeMux
	now      func() time.Time
}

type indexPageView struct {
	Title       string
	Error       string
	MaxUploadMB int
}

type weekOption struct {
	Start    string
	Label    string
	Selected bool
}

type entryView struct {
	RowNumber int
	Date      string
	Start     string
	End       string
	Minutes   int
}

type outputRowView struct {
	LineNum  int
	Activity string
	Hours    []string
	Total    string
}

type sheetPageView struct {
	Title       string
	ID          string
	FileName    string
	RowsRead    int
	RowsSkipped int
	Week        string
	WeekEnd     string
	WeekNumber  int
	WeekYear    int
	PrevWeek    string
	NextWeek    string
	Warning     string
	Weeks       []weekOption
	DayHeaders  []string
	Rows        []entryView
	Output      []outputRowView
	WorkHours   string
	CSVLink     string
	ExcelLink   string
}

type rowResponse struct {
	RowNumber    int    `json:"rowNumber"`
	Date         string `json:"date"`
	StartMinutes *int   `json:"startMinutes"`
	EndMinutes   *int   `json:"endMinutes"`
	Minutes      int    `json:"minutes"`
}

type outputRowResponse struct {
	LineNum           int      `json:"lineNum"`
	ProjectDataAreaID string   `json:"projectDataAreaId"`
	ProjectID         string   `json:"projectId"`
	ActivityNumber    string   `json:"activityNumber"`
	Hours             []string `json:"hours"`
	Comments          []string `json:"comments"`
}

type sheetResponse struct {
	ID          string              `json:"id"`
	FileName    string              `json:"fileName"`
	WeekStart   string              `json:"weekStart"`
	Warning     string              `json:"warning,omitempty"`
	Weeks       []string            `json:"weeks"`
	RowsRead    int                 `json:"rowsRead"`
	RowsSkipped int                 `json:"rowsSkipped"`
	RowsInWeek  []rowResponse       `json:"rowsInWeek"`
	Output      []outputRowResponse `json:"output"`
	WorkHours   string              `json:"workHours"`
}

// NewServer returns the UI handler wrapped in request logging.
func NewServer(cfg config.Config, logger *slog.Logger) http.Handler {
	server := newServer(cfg, logger, time.Now)
	return withRequestLog(server.logger, server)
}

func newServer(cfg config.Config, logger *slog.Logger, now func() time.Time) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	server := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: newSessionStore(cfg.Server.MaxSessions),
		now:      now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("POST /upload", server.handleUpload)
	mux.HandleFunc("GET /sheet/{id}", server.handleSheet)
	mux.HandleFunc("GET /sheet/{id}/export", server.handleExport)
	mux.HandleFunc("GET /api/sheet/{id}", server.handleAPISheet)
	mux.HandleFunc("POST /api/convert", server.handleAPIConvert)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, "")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	fileName, result, err := s.readUpload(w, r)
	if err != nil {
		s.logger.Info("upload rejected", "file", fileName, "error", err)
		s.renderIndex(w, http.StatusBadRequest, uploadErrorMessage(err))
		return
	}

	entry := s.sessions.Put(fileName, result, s.now())
	s.logger.Info("upload parsed",
		"session", entry.ID,
		"file", fileName,
		"rows", len(result.Rows),
		"rows_skipped", result.RowsSkipped,
	)
	http.Redirect(w, r, "/sheet/"+entry.ID, http.StatusSeeOther)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "upload not found (it may have expired, please upload again)", http.StatusNotFound)
		return
	}

	window, warning, err := transform.SelectWeek(entry.Result.Rows, r.URL.Query().Get("week"), s.now())
	if err != nil {
		http.Error(w, "invalid week (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	conversion := transform.Convert(entry.Result.Rows, window, s.cfg.Dynamics.Metadata())

	if err := renderTemplate(w, http.StatusOK, "sheet.html", buildSheetView(entry, conversion, warning)); err != nil {
		s.logger.Error("render sheet", "session", entry.ID, "error", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "upload not found", http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	window, _, err := transform.SelectWeek(entry.Result.Rows, query.Get("week"), s.now())
	if err != nil {
		http.Error(w, "invalid week (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	conversion := transform.Convert(entry.Result.Rows, window, s.cfg.Dynamics.Metadata())
	s.writeExport(w, conversion, query.Get("format"))
}

func (s *Server) handleAPISheet(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "upload not found"})
		return
	}

	window, warning, err := transform.SelectWeek(entry.Result.Rows, r.URL.Query().Get("week"), s.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week (expected YYYY-MM-DD)"})
		return
	}
	conversion := transform.Convert(entry.Result.Rows, window, s.cfg.Dynamics.Metadata())
	writeJSON(w, http.StatusOK, buildSheetResponse(entry, conversion, warning))
}

func (s *Server) handleAPIConvert(w http.ResponseWriter, r *http.Request) {
	fileName, result, err := s.readUpload(w, r)
	if err != nil {
		s.logger.Info("conversion rejected", "file", fileName, "error", err)
		http.Error(w, uploadErrorMessage(err), http.StatusBadRequest)
		return
	}

	window, warning, err := transform.SelectWeek(result.Rows, r.FormValue("week"), s.now())
	if err != nil {
		http.Error(w, "invalid week (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if warning != "" {
		w.Header().Set("X-Week-Warning", warning)
	}
	conversion := transform.Convert(result.Rows, window, s.cfg.Dynamics.Metadata())
	s.logger.Info("converted upload", "file", fileName, "week", window.String(), "rows_in_week", len(conversion.RowsInWeek))
	s.writeExport(w, conversion, r.FormValue("format"))
}

// writeExport renders into memory first so a writer failure can still
// produce an error status.
func (s *Server) writeExport(w http.ResponseWriter, conversion transform.Conversion, format string) {
	writer, err := output.WriterForFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body bytes.Buffer
	if err := writer.Write(&body, conversion.Rows); err != nil {
		s.logger.Error("write export", "week", conversion.Window.String(), "error", err)
		http.Error(w, "could not write export", http.StatusInternalServerError)
		return
	}

	fileName := output.FileName(conversion.Window.String(), writer)
	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

var errMissingUpload = errors.New("missing file upload")

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, *importer.Result, error) {
	limit := int64(s.cfg.Server.MaxUploadMB) << 20
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return "", nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errMissingUpload
	}
	defer file.Close()

	fileName := filepath.Base(strings.TrimSpace(header.Filename))
	format, err := importer.FormatForPath(fileName, r.FormValue("input_format"))
	if err != nil {
		return fileName, nil, err
	}
	result, err := importer.LoadReader(file, format)
	if err != nil {
		return fileName, nil, err
	}
	return fileName, result, nil
}

// uploadErrorMessage hides decoder internals behind the generic unreadable
// message.
func uploadErrorMessage(err error) string {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, importer.ErrUnreadableFile):
		return importer.ErrUnreadableFile.Error()
	case errors.As(err, &maxBytes):
		return fmt.Sprintf("file is too large (limit %d MB)", maxBytes.Limit>>20)
	default:
		return err.Error()
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, message string) {
	view := indexPageView{
		Title:       "Workforce to Dynamics",
		Error:       message,
		MaxUploadMB: s.cfg.Server.MaxUploadMB,
	}
	if err := renderTemplate(w, status, "index.html", view); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func buildSheetView(entry *upload, conversion transform.Conversion, warning string) sheetPageView {
	window := conversion.Window
	year, week := window.ISOWeek()
	view := sheetPageView{
		Title:       entry.FileName,
		ID:          entry.ID,
		FileName:    entry.FileName,
		RowsRead:    len(entry.Result.Rows),
		RowsSkipped: entry.Result.RowsSkipped,
		Week:        window.String(),
		WeekEnd:     timeutil.FormatISODate(window.Day(transform.DaysPerWeek - 1)),
		WeekNumber:  week,
		WeekYear:    year,
		PrevWeek:    timeutil.FormatISODate(window.Day(-transform.DaysPerWeek)),
		NextWeek:    timeutil.FormatISODate(window.End()),
		Warning:     warning,
		WorkHours:   conversion.WorkHours().StringFixed(2),
		CSVLink:     exportLink(entry.ID, window.String(), "csv"),
		ExcelLink:   exportLink(entry.ID, window.String(), "excel"),
	}

	for _, candidate := range transform.WeeksInFile(entry.Result.Rows) {
		y, wk := candidate.ISOWeek()
		view.Weeks = append(view.Weeks, weekOption{
			Start:    candidate.String(),
			Label:    fmt.Sprintf("Week %d/%d (%s)", wk, y, candidate.String()),
			Selected: candidate.String() == window.String(),
		})
	}
	for day := range transform.DaysPerWeek {
		view.DayHeaders = append(view.DayHeaders, dayNames[day]+" "+window.Day(day).Format("02.01"))
	}
	for _, filtered := range conversion.RowsInWeek {
		view.Rows = append(view.Rows, entryView{
			RowNumber: filtered.Row.RowNumber,
			Date:      timeutil.FormatISODate(filtered.Date),
			Start:     formatClock(filtered.Row.StartMinutes),
			End:       formatClock(filtered.Row.EndMinutes),
			Minutes:   transform.DurationMinutes(filtered.Row.StartMinutes, filtered.Row.EndMinutes),
		})
	}
	for _, row := range conversion.Rows {
		hours := make([]string, transform.DaysPerWeek)
		for day := range hours {
			hours[day] = row.HoursCell(day)
		}
		view.Output = append(view.Output, outputRowView{
			LineNum:  row.LineNum,
			Activity: row.ActivityNumber,
			Hours:    hours,
			Total:    row.TotalHours().StringFixed(2),
		})
	}
	return view
}

func buildSheetResponse(entry *upload, conversion transform.Conversion, warning string) sheetResponse {
	response := sheetResponse{
		ID:          entry.ID,
		FileName:    entry.FileName,
		WeekStart:   conversion.Window.String(),
		Warning:     warning,
		Weeks:       []string{},
		RowsRead:    len(entry.Result.Rows),
		RowsSkipped: entry.Result.RowsSkipped,
		RowsInWeek:  make([]rowResponse, 0, len(conversion.RowsInWeek)),
		Output:      make([]outputRowResponse, 0, len(conversion.Rows)),
		WorkHours:   conversion.WorkHours().String(),
	}
	for _, candidate := range transform.WeeksInFile(entry.Result.Rows) {
		response.Weeks = append(response.Weeks, candidate.String())
	}
	for _, filtered := range conversion.RowsInWeek {
		response.RowsInWeek = append(response.RowsInWeek, rowResponse{
			RowNumber:    filtered.Row.RowNumber,
			Date:         timeutil.FormatISODate(filtered.Date),
			StartMinutes: filtered.Row.StartMinutes,
			EndMinutes:   filtered.Row.EndMinutes,
			Minutes:      transform.DurationMinutes(filtered.Row.StartMinutes, filtered.Row.EndMinutes),
		})
	}
	for _, row := range conversion.Rows {
		hours := make([]string, transform.DaysPerWeek)
		for day := range hours {
			hours[day] = row.HoursCell(day)
		}
		response.Output = append(response.Output, outputRowResponse{
			LineNum:           row.LineNum,
			ProjectDataAreaID: row.ProjectDataAreaID,
			ProjectID:         row.ProjectID,
			ActivityNumber:    row.ActivityNumber,
			Hours:             hours,
			Comments:          append([]string(nil), row.Comments[:]...),
		})
	}
	return response
}

func exportLink(id, week, format string) string {
	query := url.Values{}
	query.Set("week", week)
	query.Set("format", format)
	return "/sheet/" + url.PathEscape(id) + "/export?" + query.Encode()
}

func formatClock(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d", *minutes/60, *minutes%60)
}

// renderTemplate executes into a buffer so template errors never leave a
// half-written page behind.
func renderTemplate(w http.ResponseWriter, status int, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"emptyDash": func(value string) string {
			if value == "" {
				return "·"
			}
			return value
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}

	var page bytes.Buffer
	if err := tmpl.ExecuteTemplate(&page, "base", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page.Bytes())
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
