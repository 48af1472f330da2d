package rest

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hupe1980/btreego"
	"github.com/hupe1980/btreego/model"
	"github.com/hupe1980/btreego/render"
)

// Handlers contains the HTTP request handlers.
type Handlers struct {
	db           *btreego.DB
	startTime    time.Time
	requestCount atomic.Int64
}

// NewHandlers creates handlers backed by db.
func NewHandlers(db *btreego.DB) *Handlers {
	return &Handlers{
		db:        db,
		startTime: time.Now(),
	}
}

// CountRequests increments the request counter reported by HandleHealth.
func (h *Handlers) CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requestCount.Add(1)
		next.ServeHTTP(w, r)
	})
}

// table resolves the {table} path segment. It writes the error response and
// returns nil when the table cannot be resolved.
func (h *Handlers) table(w http.ResponseWriter, r *http.Request) *btreego.Table {
	tab, err := h.db.Table(r.PathValue("table"))
	if err != nil {
		mapStoreError(w, err)
		return nil
	}

	return tab
}

// HandleCreateTable handles POST /v1/tables.
func (h *Handlers) HandleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	tab, err := h.db.CreateTable(r.Context(), req.Name, req.Order)
	if err != nil {
		mapStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tableResponse(tab))
}

// HandleListTables handles GET /v1/tables.
func (h *Handlers) HandleListTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ListTablesResponse{Tables: h.db.Tables()})
}

// HandleGetTable handles GET /v1/tables/{table}.
func (h *Handlers) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	tab := h.table(w, r)
	if tab == nil {
		return
	}

	writeJSON(w, http.StatusOK, tableResponse(tab))
}

// HandleDropTable handles DELETE /v1/tables/{table}.
func (h *Handlers) HandleDropTable(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DropTable(r.Context(), r.PathValue("table")); err != nil {
		mapStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpsertRecord handles POST /v1/tables/{table}/records.
func (h *Handlers) HandleUpsertRecord(w http.ResponseWriter, r *http.Request) {
	var req UpsertRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "value must be a JSON object")
		return
	}

	tab := h.table(w, r)
	if tab == nil {
		return
	}

	if err := tab.Insert(r.Context(), req.Key, req.Value); err != nil {
		mapStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, btreego.Entry{Key: req.Key, Value: req.Value})
}

// HandleListRecords handles GET /v1/tables/{table}/records. With both start
// and end query parameters it performs an inclusive range scan, otherwise it
// returns every record in key order.
func (h *Handlers) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if (start == "") != (end == "") {
		writeError(w, http.StatusBadRequest, "invalid_range", "start and end must be provided together")
		return
	}

	tab := h.table(w, r)
	if tab == nil {
		return
	}

	var (
		entries []btreego.Entry
		err     error
	)

	if start != "" {
		entries, err = tab.Range(r.Context(), model.ParseKey(start), model.ParseKey(end))
	} else {
		entries, err = tab.Scan(r.Context())
	}

	if err != nil {
		mapStoreError(w, err)
		return
	}

	if entries == nil {
		entries = []btreego.Entry{}
	}

	writeJSON(w, http.StatusOK, RecordsResponse{Entries: entries, Count: len(entries)})
}

// HandleGetRecord handles GET /v1/tables/{table}/records/{key}.
func (h *Handlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	tab := h.table(w, r)
	if tab == nil {
		return
	}

	key := model.ParseKey(r.PathValue("key"))

	value, err := tab.Get(r.Context(), key)
	if err != nil {
		mapStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, btreego.Entry{Key: key, Value: value})
}

// HandleUpdateRecord handles PUT /v1/tables/{table}/records/{key}. The body
// is the record object itself.
func (h *Handlers) HandleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var value model.Record
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if value == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}

	tab := h.table(w, r)
	if tab == nil {
		return
	}

	key := model.ParseKey(r.PathValue("key"))

	if err := tab.Update(r.Context(), key, value); err != nil {
		mapStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, btreego.Entry{Key: key, Value: value})
}

// HandleDeleteRecord handles DELETE /v1/tables/{table}/records/{key}.
func (h *Handlers) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	tab := h.table(w, r)
	if tab == nil {
		return
	}

	if err := tab.Delete(r.Context(), model.ParseKey(r.PathValue("key"))); err != nil {
		mapStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDOT handles GET /v1/tables/{table}/dot.
func (h *Handlers) HandleDOT(w http.ResponseWriter, r *http.Request) {
	tab := h.table(w, r)
	if tab == nil {
		return
	}

	var optFns []func(*render.Options)
	if r.URL.Query().Get("values") == "true" {
		optFns = append(optFns, render.WithValues())
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(tab.DOT(optFns...)))
}

// HandleSave handles POST /v1/save.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	man, err := h.db.Save(r.Context())
	if err != nil {
		mapStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SaveResponse{Version: man.ID, Tables: len(man.Tables)})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	uptime := time.Since(h.startTime)

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Uptime:     uptime.Round(time.Second).String(),
		UptimeSecs: int64(uptime.Seconds()),
		StartTime:  h.startTime,
		Tables:     len(h.db.Tables()),
		Requests:   h.requestCount.Load(),
	})
}
