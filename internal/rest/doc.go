// Package rest exposes a database over HTTP.
//
// Routes use the Go 1.22 ServeMux method patterns and exchange JSON:
//
//	POST   /v1/tables                         create a table {name, order}
//	GET    /v1/tables                         list table names
//	GET    /v1/tables/{table}                 table info and tree stats
//	DELETE /v1/tables/{table}                 drop a table
//	POST   /v1/tables/{table}/records         upsert {key, value}
//	GET    /v1/tables/{table}/records         full scan, or ?start=&end= range
//	GET    /v1/tables/{table}/records/{key}   point lookup
//	PUT    /v1/tables/{table}/records/{key}   update, body is the record object
//	DELETE /v1/tables/{table}/records/{key}   delete
//	GET    /v1/tables/{table}/dot             Graphviz DOT rendering
//	POST   /v1/save                           snapshot the catalog
//	GET    /healthz                           liveness
//	GET    /metrics                           Prometheus metrics
//
// Key path segments are coerced with model.ParseKey: decimal integers
// become int keys, everything else string keys. Record bodies must be
// JSON objects.
package rest
