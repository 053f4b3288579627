// Package journal keeps an append-only record of executed trades.
package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/market"
)

// Entry is one accepted order, recorded at submission time.
type Entry struct {
	Time     time.Time       `json:"time"`
	Symbol   string          `json:"symbol"`
	Side     market.Side     `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
	Proceeds decimal.Decimal `json:"proceeds"`
	Profit   decimal.Decimal `json:"profit"`
	OrderID  string          `json:"orderId,omitempty"`
}

// Writer appends entries as JSON lines.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewWriter creates/opens the target file and returns a writer.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{file: file, enc: json.NewEncoder(file)}, nil
}

// Record writes a single entry to the underlying file.
func (w *Writer) Record(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(e)
}

// Close flushes and closes the file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Read loads every entry from a journal file. A missing file yields none.
func Read(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var out []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}

// DayProfit sums realized profit for entries on the same UTC day as t.
func DayProfit(entries []Entry, t time.Time) decimal.Decimal {
	day := t.UTC().Format("2006-01-02")
	total := decimal.Zero
	for _, e := range entries {
		if e.Time.UTC().Format("2006-01-02") == day {
			total = total.Add(e.Profit)
		}
	}
	return total
}
