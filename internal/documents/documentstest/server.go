// Package documentstest provides an in-memory fake of the Drive v3 and
// Sheets v4 REST endpoints for tests.
package documentstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/gdocs/internal/google"
)

const mimeTypeSpreadsheet = "application/vnd.google-apps.spreadsheet"

// DefaultPageSize is the number of items per files.list page.
const DefaultPageSize = 2

// Request is one request observed by the server.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

type spreadsheet struct {
	sheets      []*sheets.SheetProperties
	values      map[string][][]any
	nextSheetID int64
}

// Server is a fake Google API server. It is safe for concurrent use.
type Server struct {
	*httptest.Server

	// PageSize is the number of files per list page.
	PageSize int

	mu           sync.Mutex
	files        map[string]*drive.File
	exports      map[string][]byte
	uploads      map[string][]byte
	spreadsheets map[string]*spreadsheet
	requests     []Request
	failures     map[string]int
	nextID       int
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		PageSize:     DefaultPageSize,
		files:        map[string]*drive.File{},
		exports:      map[string][]byte{},
		uploads:      map[string][]byte{},
		spreadsheets: map[string]*spreadsheet{},
		failures:     map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Locator returns a locator whose services talk to the server without
// credentials.
func (s *Server) Locator() *google.Locator {
	return google.NewLocator(
		google.WithEndpoint(s.URL+"/"),
		google.WithHTTPClient(s.Client()),
	)
}

// AddFile stores a Drive item.
func (s *Server) AddFile(id, name, mimeType string, parents ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[id] = &drive.File{Id: id, Name: name, MimeType: mimeType, Parents: parents}
}

// AddSpreadsheet stores a spreadsheet with the given tab titles, or a
// single "Sheet1" tab when none are given. Sheet ids start at 0.
func (s *Server) AddSpreadsheet(id, name string, titles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addSpreadsheet(id, name, titles...)
}

func (s *Server) addSpreadsheet(id, name string, titles ...string) *spreadsheet {
	if len(titles) == 0 {
		titles = []string{"Sheet1"}
	}

	ss := &spreadsheet{values: map[string][][]any{}}
	for _, title := range titles {
		ss.sheets = append(ss.sheets, ss.newSheet(title))
	}
	s.spreadsheets[id] = ss
	s.files[id] = &drive.File{Id: id, Name: name, MimeType: mimeTypeSpreadsheet}
	return ss
}

func (ss *spreadsheet) newSheet(title string) *sheets.SheetProperties {
	props := &sheets.SheetProperties{
		SheetId: ss.nextSheetID,
		Index:   int64(len(ss.sheets)),
		Title:   title,
		GridProperties: &sheets.GridProperties{
			RowCount:    1000,
			ColumnCount: 26,
		},
	}
	ss.nextSheetID++
	return props
}

// SetExport sets the bytes files.export returns for id.
func (s *Server) SetExport(id string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exports[id] = content
}

// SetValues stores a grid for a range of a spreadsheet.
func (s *Server) SetValues(id, rng string, values [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ss, ok := s.spreadsheets[id]; ok {
		ss.values[rng] = values
	}
}

// Fail makes every request whose path starts with prefix answer with code.
// A code of 0 removes the failure.
func (s *Server) Fail(prefix string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == 0 {
		delete(s.failures, prefix)
		return
	}
	s.failures[prefix] = code
}

// File returns the stored Drive item with id.
func (s *Server) File(id string) (*drive.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return nil, false
	}
	clone := *f
	clone.Parents = append([]string(nil), f.Parents...)
	return &clone, true
}

// Upload returns the raw body of the last media upload for id.
func (s *Server) Upload(id string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.uploads[id]
}

// SheetTitles returns the tab titles of a spreadsheet in index order.
func (s *Server) SheetTitles(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss, ok := s.spreadsheets[id]
	if !ok {
		return nil
	}
	titles := make([]string, len(ss.sheets))
	for i, props := range ss.sheets {
		titles[i] = props.Title
	}
	return titles
}

// Requests returns every request observed so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// RequestCount returns the number of requests observed so far.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// Queries returns the q parameter of every files.list request.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queries []string
	for _, r := range s.requests {
		if r.Method == http.MethodGet && r.Path == "/files" {
			values, _ := url.ParseQuery(r.Query)
			queries = append(queries, values.Get("q"))
		}
	}
	return queries
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   body,
	})

	for prefix, code := range s.failures {
		if strings.HasPrefix(r.URL.Path, prefix) {
			writeError(w, code, "injected failure")
			return
		}
	}

	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/upload/drive/v3/files/"):
		s.handleUpload(w, r, strings.TrimPrefix(path, "/upload/drive/v3/files/"), body)
	case path == "/files":
		s.handleList(w, r)
	case strings.HasPrefix(path, "/files/"):
		s.handleFile(w, r, strings.TrimPrefix(path, "/files/"), body)
	case path == "/v4/spreadsheets" && r.Method == http.MethodPost:
		s.handleCreate(w, body)
	case strings.HasPrefix(path, "/v4/spreadsheets/"):
		s.handleSpreadsheet(w, r, strings.TrimPrefix(path, "/v4/spreadsheets/"), body)
	default:
		writeError(w, http.StatusNotFound, "unknown path "+path)
	}
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request, rest string, body []byte) {
	id, action, _ := strings.Cut(rest, "/")
	f, ok := s.files[id]
	if !ok {
		writeError(w, http.StatusNotFound, "File not found: "+id)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, f)
	case action == "" && r.Method == http.MethodDelete:
		delete(s.files, id)
		delete(s.spreadsheets, id)
		w.WriteHeader(http.StatusNoContent)
	case action == "" && r.Method == http.MethodPatch:
		if add := r.URL.Query().Get("addParents"); add != "" {
			for _, parent := range strings.Split(add, ",") {
				if !slices.Contains(f.Parents, parent) {
					f.Parents = append(f.Parents, parent)
				}
			}
		}
		var patch drive.File
		if len(body) > 0 && json.Unmarshal(body, &patch) == nil && patch.Name != "" {
			f.Name = patch.Name
		}
		writeJSON(w, f)
	case action == "copy" && r.Method == http.MethodPost:
		var req drive.File
		_ = json.Unmarshal(body, &req)
		c := &drive.File{
			Id:       s.newID(id + "-copy"),
			Name:     req.Name,
			MimeType: f.MimeType,
			Parents:  append([]string(nil), f.Parents...),
		}
		if c.Name == "" {
			c.Name = "Copy of " + f.Name
		}
		s.files[c.Id] = c
		if ss, ok := s.spreadsheets[id]; ok {
			s.spreadsheets[c.Id] = ss
		}
		writeJSON(w, c)
	case action == "export" && r.Method == http.MethodGet:
		content, ok := s.exports[id]
		if !ok {
			writeError(w, http.StatusBadRequest, "Export only supports Docs Editors files.")
			return
		}
		w.Header().Set("Content-Type", r.URL.Query().Get("mimeType"))
		_, _ = w.Write(content)
	default:
		writeError(w, http.StatusMethodNotAllowed, r.Method+" "+rest)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, id string, body []byte) {
	f, ok := s.files[id]
	if !ok || r.Method != http.MethodPatch {
		writeError(w, http.StatusNotFound, "File not found: "+id)
		return
	}
	s.uploads[id] = body
	writeJSON(w, f)
}

var (
	parentsClause  = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)' in parents$`)
	containsClause = regexp.MustCompile(`^(\w+) contains '((?:[^'\\]|\\.)*)'$`)
	equalsClause   = regexp.MustCompile(`^(\w+) = (true|false)$`)
	unescaper      = strings.NewReplacer(`\\`, `\`, `\'`, `'`)
)

func matches(f *drive.File, q string) bool {
	if q == "" {
		return true
	}
	for _, clause := range strings.Split(q, " and ") {
		switch {
		case parentsClause.MatchString(clause):
			m := parentsClause.FindStringSubmatch(clause)
			if !slices.Contains(f.Parents, unescaper.Replace(m[1])) {
				return false
			}
		case containsClause.MatchString(clause):
			m := containsClause.FindStringSubmatch(clause)
			value := unescaper.Replace(m[2])
			switch m[1] {
			case "name":
				if !strings.Contains(f.Name, value) {
					return false
				}
			case "mimeType":
				if !strings.Contains(f.MimeType, value) {
					return false
				}
			}
		case equalsClause.MatchString(clause):
			m := equalsClause.FindStringSubmatch(clause)
			if m[1] == "trashed" && m[2] == "true" {
				return false
			}
		}
	}
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	ids := make([]string, 0, len(s.files))
	for id, f := range s.files {
		if matches(f, q) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
	size := s.PageSize
	if size <= 0 {
		size = len(ids) + 1
	}
	end := min(start+size, len(ids))

	page := &drive.FileList{Files: []*drive.File{}}
	for _, id := range ids[min(start, len(ids)):end] {
		page.Files = append(page.Files, s.files[id])
	}
	if end < len(ids) {
		page.NextPageToken = strconv.Itoa(end)
	}
	writeJSON(w, page)
}

func (s *Server) handleCreate(w http.ResponseWriter, body []byte) {
	var req sheets.Spreadsheet
	_ = json.Unmarshal(body, &req)

	title := "Untitled spreadsheet"
	if req.Properties != nil && req.Properties.Title != "" {
		title = req.Properties.Title
	}

	id := s.newID("spreadsheet")
	ss := s.addSpreadsheet(id, title)
	writeJSON(w, s.spreadsheetResource(id, title, ss))
}

func (s *Server) spreadsheetResource(id, title string, ss *spreadsheet) *sheets.Spreadsheet {
	res := &sheets.Spreadsheet{
		SpreadsheetId: id,
		Properties:    &sheets.SpreadsheetProperties{Title: title},
	}
	for _, props := range ss.sheets {
		res.Sheets = append(res.Sheets, &sheets.Sheet{Properties: props})
	}
	return res
}

func (s *Server) handleSpreadsheet(w http.ResponseWriter, r *http.Request, rest string, body []byte) {
	switch {
	case strings.HasSuffix(rest, ":batchUpdate") && !strings.Contains(rest, "/"):
		s.withSpreadsheet(w, strings.TrimSuffix(rest, ":batchUpdate"), func(id string, ss *spreadsheet) {
			s.batchUpdate(w, id, ss, body)
		})
	case strings.HasSuffix(rest, "/values:batchGet"):
		s.withSpreadsheet(w, strings.TrimSuffix(rest, "/values:batchGet"), func(id string, ss *spreadsheet) {
			resp := &sheets.BatchGetValuesResponse{SpreadsheetId: id}
			for _, rng := range r.URL.Query()["ranges"] {
				resp.ValueRanges = append(resp.ValueRanges, &sheets.ValueRange{Range: rng, Values: ss.values[rng]})
			}
			writeJSON(w, resp)
		})
	case strings.HasSuffix(rest, "/values:batchUpdate"):
		s.withSpreadsheet(w, strings.TrimSuffix(rest, "/values:batchUpdate"), func(id string, ss *spreadsheet) {
			var req sheets.BatchUpdateValuesRequest
			if err := json.Unmarshal(body, &req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			for _, vr := range req.Data {
				ss.values[vr.Range] = vr.Values
			}
			writeJSON(w, &sheets.BatchUpdateValuesResponse{SpreadsheetId: id, TotalUpdatedSheets: int64(len(req.Data))})
		})
	case strings.HasSuffix(rest, "/values:batchClear"):
		s.withSpreadsheet(w, strings.TrimSuffix(rest, "/values:batchClear"), func(id string, ss *spreadsheet) {
			var req sheets.BatchClearValuesRequest
			_ = json.Unmarshal(body, &req)
			for _, rng := range req.Ranges {
				delete(ss.values, rng)
			}
			writeJSON(w, &sheets.BatchClearValuesResponse{SpreadsheetId: id, ClearedRanges: req.Ranges})
		})
	case strings.Contains(rest, "/values/"):
		id, rng, _ := strings.Cut(rest, "/values/")
		s.withSpreadsheet(w, id, func(id string, ss *spreadsheet) {
			s.values(w, r, id, ss, rng, body)
		})
	default:
		s.withSpreadsheet(w, rest, func(id string, ss *spreadsheet) {
			writeJSON(w, s.spreadsheetResource(id, s.files[id].Name, ss))
		})
	}
}

func (s *Server) withSpreadsheet(w http.ResponseWriter, id string, fn func(string, *spreadsheet)) {
	ss, ok := s.spreadsheets[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}
	fn(id, ss)
}

func (s *Server) values(w http.ResponseWriter, r *http.Request, id string, ss *spreadsheet, rng string, body []byte) {
	switch {
	case strings.HasSuffix(rng, ":clear") && r.Method == http.MethodPost:
		rng = strings.TrimSuffix(rng, ":clear")
		delete(ss.values, rng)
		writeJSON(w, &sheets.ClearValuesResponse{SpreadsheetId: id, ClearedRange: rng})
	case r.Method == http.MethodGet:
		writeJSON(w, &sheets.ValueRange{Range: rng, Values: ss.values[rng]})
	case r.Method == http.MethodPut:
		var vr sheets.ValueRange
		if err := json.Unmarshal(body, &vr); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		switch opt := r.URL.Query().Get("valueInputOption"); opt {
		case "RAW", "USER_ENTERED":
		default:
			writeError(w, http.StatusBadRequest, "Invalid valueInputOption: "+opt)
			return
		}
		ss.values[rng] = vr.Values
		writeJSON(w, &sheets.UpdateValuesResponse{SpreadsheetId: id, UpdatedRange: rng})
	default:
		writeError(w, http.StatusMethodNotAllowed, r.Method+" "+rng)
	}
}

func (s *Server) batchUpdate(w http.ResponseWriter, id string, ss *spreadsheet, body []byte) {
	var req sheets.BatchUpdateSpreadsheetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := &sheets.BatchUpdateSpreadsheetResponse{SpreadsheetId: id}
	for _, op := range req.Requests {
		reply := &sheets.Response{}
		switch {
		case op.AddSheet != nil:
			title := "Sheet" + strconv.FormatInt(ss.nextSheetID+1, 10)
			if op.AddSheet.Properties != nil && op.AddSheet.Properties.Title != "" {
				title = op.AddSheet.Properties.Title
			}
			for _, props := range ss.sheets {
				if props.Title == title {
					writeError(w, http.StatusBadRequest, fmt.Sprintf("A sheet with the name %q already exists.", title))
					return
				}
			}
			props := ss.newSheet(title)
			ss.sheets = append(ss.sheets, props)
			reply.AddSheet = &sheets.AddSheetResponse{Properties: props}
		case op.DeleteSheet != nil:
			idx := -1
			for i, props := range ss.sheets {
				if props.SheetId == op.DeleteSheet.SheetId {
					idx = i
				}
			}
			if idx < 0 {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("No grid with id: %d", op.DeleteSheet.SheetId))
				return
			}
			ss.sheets = append(ss.sheets[:idx], ss.sheets[idx+1:]...)
			for i, props := range ss.sheets {
				props.Index = int64(i)
			}
		}
		resp.Replies = append(resp.Replies, reply)
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
