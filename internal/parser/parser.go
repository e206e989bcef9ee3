// Package parser reads secondary-structure annotation and prediction files
// into label sequences.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/githubz0r/ss-pred/internal/label"
)

// Chain is one annotated protein chain from a reference file.
type Chain struct {
	// ID is the chain identifier taken from the FASTA-style header
	ID string

	// Labels is the three-state annotation, one label per residue
	Labels label.Sequence
}

// ReadAnnotations reads a FASTA-style annotation file: each record is a
// ">id" header line followed by one or more lines of H/E/- labels (C is
// accepted as a coil alias). The source may be a local path or an
// http(s) URL.
func ReadAnnotations(source string) ([]Chain, error) {
	r, err := open(source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	chains, err := ParseAnnotations(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return chains, nil
}

// ParseAnnotations parses FASTA-style annotation records from r.
func ParseAnnotations(r io.Reader) ([]Chain, error) {
	var chains []Chain
	var id string
	var body strings.Builder
	seen := make(map[string]bool)

	flush := func() error {
		if id == "" {
			return nil
		}
		seq, err := parseLabels(body.String())
		if err != nil {
			return fmt.Errorf("chain %s: %w", id, err)
		}
		if len(seq) == 0 {
			return fmt.Errorf("chain %s: no labels", id)
		}
		chains = append(chains, Chain{ID: id, Labels: seq})
		id = ""
		body.Reset()
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, ">") {
			if err := flush(); err != nil {
				return nil, err
			}
			fields := strings.Fields(text[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: empty chain id", line)
			}
			id = fields[0]
			if seen[id] {
				return nil, fmt.Errorf("line %d: duplicate chain id %s", line, id)
			}
			seen[id] = true
			continue
		}
		if id == "" {
			return nil, fmt.Errorf("line %d: labels before first header", line)
		}
		body.WriteString(text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(chains) == 0 {
		return nil, fmt.Errorf("no chains found")
	}
	return chains, nil
}

// ReadHorizontal reads a horizontal prediction report, as emitted by common
// secondary-structure predictors: the labels are the concatenation of all
// "Pred:" lines. The source may be a local path or an http(s) URL.
func ReadHorizontal(source string) (label.Sequence, error) {
	r, err := open(source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	seq, err := ParseHorizontal(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return seq, nil
}

// ParseHorizontal parses a horizontal prediction report from r.
func ParseHorizontal(r io.Reader) (label.Sequence, error) {
	var body strings.Builder

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if pred, ok := strings.CutPrefix(text, "Pred:"); ok {
			body.WriteString(strings.TrimSpace(pred))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if body.Len() == 0 {
		return nil, fmt.Errorf("no Pred: lines found")
	}
	return parseLabels(body.String())
}

// parseLabels normalizes the coil alias C and validates against the
// three-state alphabet.
func parseLabels(s string) (label.Sequence, error) {
	return label.Parse(strings.ReplaceAll(s, "C", string(label.Coil)))
}

// open returns a reader over a local file or, for http(s) sources, the
// response body of a GET with a bounded timeout.
func open(source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{
			Timeout: 30 * time.Second,
		}

		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch %s: HTTP %d", source, resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	return f, nil
}
