package rest

import (
	"time"

	"github.com/hupe1980/btreego"
	"github.com/hupe1980/btreego/model"
)

// CreateTableRequest creates a table. Order zero selects the server default.
type CreateTableRequest struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// TableResponse describes a table and its tree shape.
type TableResponse struct {
	Name          string    `json:"name"`
	Order         int       `json:"order"`
	Keys          int       `json:"keys"`
	Height        int       `json:"height"`
	InternalNodes int       `json:"internalNodes"`
	LeafNodes     int       `json:"leafNodes"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListTablesResponse lists table names in ascending order.
type ListTablesResponse struct {
	Tables []string `json:"tables"`
}

// UpsertRecordRequest inserts or replaces one record.
type UpsertRecordRequest struct {
	Key   model.Key    `json:"key"`
	Value model.Record `json:"value"`
}

// RecordsResponse carries scan and range results.
type RecordsResponse struct {
	Entries []btreego.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// SaveResponse reports a committed snapshot.
type SaveResponse struct {
	Version uint64 `json:"version"`
	Tables  int    `json:"tables"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string    `json:"status"`
	Uptime     string    `json:"uptime"`
	UptimeSecs int64     `json:"uptimeSecs"`
	StartTime  time.Time `json:"startTime"`
	Tables     int       `json:"tables"`
	Requests   int64     `json:"requests"`
}

func tableResponse(tab *btreego.Table) TableResponse {
	stats := tab.Stats()
	return TableResponse{
		Name:          tab.Name(),
		Order:         stats.Order,
		Keys:          stats.Keys,
		Height:        stats.Height,
		InternalNodes: stats.InternalNodes,
		LeafNodes:     stats.LeafNodes,
		CreatedAt:     tab.CreatedAt(),
	}
}
