package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
)

// Line is one JSONL observation: {"signal": "query_latency", "value": 42.5}.
// Signal may be omitted when a default is supplied to Stream.
type Line struct {
	Signal string  `json:"signal"`
	Value  float64 `json:"value"`
}

// Stream reads JSONL observations from r and posts each to the server.
// defaultSignal fills in lines that omit the signal field. Malformed lines
// are logged and skipped; post failures are logged and counted as errors.
// Returns the number of observations posted and the number of errors.
func Stream(c *Client, r io.Reader, defaultSignal string) (posted, errored int) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		line, err := parseLine(text, defaultSignal)
		if err != nil {
			log.Printf("ingest: line %d: %v", lineNo, err)
			errored++
			continue
		}

		if err := c.Observe(line.Signal, line.Value); err != nil {
			log.Printf("ingest: line %d: %v", lineNo, err)
			errored++
			continue
		}
		posted++
	}
	if err := scanner.Err(); err != nil {
		log.Printf("ingest: read input: %v", err)
		errored++
	}
	return posted, errored
}

func parseLine(text, defaultSignal string) (Line, error) {
	var line Line
	if err := json.Unmarshal([]byte(text), &line); err != nil {
		return Line{}, fmt.Errorf("invalid json: %w", err)
	}
	if line.Signal == "" {
		line.Signal = defaultSignal
	}
	if line.Signal == "" {
		return Line{}, fmt.Errorf("no signal name and no default set")
	}
	return line, nil
}
