package render

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile выгружает собранные метрики в текстовом формате для
// textfile коллектора node_exporter. Файл заменяется атомарно.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
