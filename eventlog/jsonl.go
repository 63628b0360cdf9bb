package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONL writes every log entry as one JSON object per line.
func (l *Log) WriteJSONL(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, entry := range l.entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encoding entry %d: %w", entry.Seq, err)
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportJSONL writes the log to a file, creating or truncating it.
func (l *Log) ExportJSONL(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := l.WriteJSONL(f); err != nil {
		return err
	}
	return f.Close()
}

// ReadJSONL parses a log from a JSONL reader. Entries keep their
// persisted IDs and sequence numbers; blank lines are skipped.
func ReadJSONL(r io.Reader) (*Log, error) {
	log := NewLog()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if entry.Kind == "" {
			return nil, fmt.Errorf("line %d: missing kind", lineNum)
		}
		log.Restore(entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return log, nil
}

// ImportJSONL parses a log from a JSONL file.
func ImportJSONL(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ReadJSONL(f)
}
