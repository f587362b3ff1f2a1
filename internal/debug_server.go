package internal

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/process"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key    string
	Size   string
	Detail string
}

type StatsProvider func() map[string]any

// StartDebugServer exposes a read-only HTML view of the local vault plus
// process statistics, for troubleshooting a running client.
func StartDebugServer(db *badger.DB, port int, endpoint string, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "session:"
		}

		data := struct {
			Prefix string
			Items  []InspectRow
			Stats  map[string]any
		}{Prefix: prefix, Stats: make(map[string]any)}

		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, InspectRow{
						Key:    string(item.Key()),
						Size:   strconv.Itoa(len(val)) + " bytes",
						Detail: summarize(val),
					})
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("localhost:%d", port), mux)
	}()
}

// ProcessStats reports this client's resource usage via gopsutil.
func ProcessStats() map[string]any {
	stats := map[string]any{
		"Time": time.Now().Format(time.RFC822),
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		stats["RSS"] = fmt.Sprintf("%.1f MB", float64(mem.RSS)/(1024*1024))
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats["CPU"] = fmt.Sprintf("%.1f%%", cpu)
	}
	return stats
}

// summarize truncates values for display; stored tokens stay opaque.
func summarize(val []byte) string {
	const max = 24
	if len(val) <= max {
		return string(val)
	}
	return string(val[:max]) + "..."
}
