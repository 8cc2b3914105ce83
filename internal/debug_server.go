package internal

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const inspectPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Resources {{.Prefix}}</title>
<style>
body { font-family: monospace; margin: 2em; }
table { border-collapse: collapse; }
td, th { padding: 4px 10px; border-bottom: 1px solid #ddd; text-align: left; vertical-align: top; }
.unresolved { color: #b35900; }
</style>
</head>
<body>
<form><input name="prefix" value="{{.Prefix}}"> <button>Scan</button></form>
{{if .Stats}}<p>{{range $k, $v := .Stats}}{{$k}}: {{$v}} &nbsp; {{end}}</p>{{end}}
<table>
<tr><th>Key</th><th>Kind</th><th>ID</th><th>Model</th><th>Detail</th></tr>
{{range .Items}}<tr{{if .Unresolved}} class="unresolved"{{end}}><td>{{.Key}}</td><td>{{.Kind}}</td><td>{{.ID}}</td><td>{{.Model}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body>
</html>`

var inspectTemplate = template.Must(template.New("inspect").Parse(inspectPage))

type InspectRow struct {
	Key        string
	Kind       string
	ID         string
	Model      string
	Detail     string
	Unresolved bool
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// InspectHandler renders the badger entries under the "prefix" query parameter,
// "res:" by default.
func InspectHandler(db *badger.DB, mapper RowMapper, statsProvider StatsProvider) http.Handler {
	if mapper == nil {
		mapper = DefaultMapper
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "res:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		err := db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTemplate.Execute(w, data)
	})
}

// StartDebugServer serves InspectHandler on endpoint in the background.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, InspectHandler(db, mapper, statsProvider))
	server := &http.Server{Addr: fmt.Sprintf("0.0.0.0:%d", port), Handler: mux}
	go func() {
		_ = server.ListenAndServe()
	}()
	return server
}

// DefaultMapper reads the kind and id from a "res:{kind}:{id}" key.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:    key,
		Kind:   "raw",
		ID:     "--------",
		Model:  "-",
		Detail: "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	parts := strings.SplitN(key, ":", 3)
	if len(parts) == 3 && parts[0] == "res" {
		row.Kind = parts[1]
		row.ID = parts[2]
	}
	return row
}
