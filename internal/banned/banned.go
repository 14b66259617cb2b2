// Package banned holds the set of numbers rejected at submission time,
// loaded once at boot and immutable afterwards.
package banned

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

type Set struct {
	numbers map[string]struct{}
}

// Load fetches the banned-number blob from source: an http(s) URL, a
// file:// URI, or a plain file path. The blob is line-delimited; blank
// lines and lines starting with '#' are skipped.
func Load(ctx context.Context, source string) (*Set, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadHTTP(ctx, source)
	}
	path := strings.TrimPrefix(source, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open banned numbers source: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func loadHTTP(ctx context.Context, url string) (*Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch banned numbers source: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch banned numbers source: status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

func Parse(r io.Reader) (*Set, error) {
	s := &Set{numbers: map[string]struct{}{}}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.numbers[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read banned numbers: %w", err)
	}
	return s, nil
}

func (s *Set) Contains(number string) bool {
	_, ok := s.numbers[number]
	return ok
}

func (s *Set) Len() int {
	return len(s.numbers)
}
