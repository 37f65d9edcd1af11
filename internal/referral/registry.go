package referral

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	minCodeLength = 4
	maxCodeLength = 20
)

// Referral is a known referral code and who it belongs to
type Referral struct {
	Code       string `json:"code"`
	ReferredBy string `json:"referredBy,omitempty"`
}

// Registry holds the referral codes loaded from one or more lists.
// Each list line is "CODE" or "CODE,Referrer Name". Codes are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	codes   map[string]string
	filter  *bloom.BloomFilter
	sources []string
}

// listLoadResult holds the result of loading a single list
type listLoadResult struct {
	index int
	codes map[string]string
	err   error
}

// NewRegistry creates an empty registry; every lookup misses until a load succeeds
func NewRegistry() *Registry {
	return &Registry{
		codes: make(map[string]string),
	}
}

// LoadFromURLs downloads gzipped or plain code lists concurrently and replaces the
// registry contents. Nothing is replaced if any list fails.
func (r *Registry) LoadFromURLs(ctx context.Context, urls []string) error {
	return r.load(ctx, urls, loadFromURL)
}

// LoadFromFiles reads code lists from disk; files ending in .gz are decompressed
func (r *Registry) LoadFromFiles(ctx context.Context, paths []string) error {
	return r.load(ctx, paths, loadFromFile)
}

func (r *Registry) load(ctx context.Context, sources []string, fetch func(context.Context, string) (map[string]string, error)) error {
	if len(sources) == 0 {
		return fmt.Errorf("no referral code sources provided")
	}

	resultChan := make(chan listLoadResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			codes, err := fetch(ctx, source)
			resultChan <- listLoadResult{
				index: index,
				codes: codes,
				err:   err,
			}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]listLoadResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := make(map[string]string)
	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("failed to load referral list %d: %w", i+1, result.err)
		}
		// earlier lists win for duplicate codes
		for code, owner := range result.codes {
			if _, seen := merged[code]; !seen {
				merged[code] = owner
			}
		}
	}

	filter := bloom.NewWithEstimates(uint(max(len(merged), 1)), 0.001)
	for code := range merged {
		filter.AddString(code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = merged
	r.filter = filter
	r.sources = append([]string(nil), sources...)

	return nil
}

func loadFromURL(ctx context.Context, url string) (map[string]string, error) {
	client := &http.Client{
		Timeout: time.Minute,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader, closeFn, err := maybeGzip(resp.Body)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return parseCodes(reader)
}

// maybeGzip returns a reader over the decompressed list when r starts with
// the gzip magic bytes and over r itself otherwise.
func maybeGzip(r io.Reader) (io.Reader, func() error, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("failed to read list: %w", err)
	}
	if len(magic) < 2 || magic[0] != 0x1f || magic[1] != 0x8b {
		return br, func() error { return nil }, nil
	}

	gzReader, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return gzReader, gzReader.Close, nil
}

func loadFromFile(_ context.Context, path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	return parseCodes(reader)
}

// parseCodes reads "CODE[,Referrer]" lines; blank lines and lines starting
// with '#' are skipped, as are codes of invalid length.
func parseCodes(r io.Reader) (map[string]string, error) {
	codes := make(map[string]string)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		code, owner, _ := strings.Cut(line, ",")
		code = normalize(code)
		if !validLength(code) {
			continue
		}
		codes[code] = strings.TrimSpace(owner)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return codes, nil
}

// Lookup resolves a referral code. The bloom filter answers most misses
// without touching the map.
func (r *Registry) Lookup(code string) (Referral, bool) {
	code = normalize(code)
	if !validLength(code) {
		return Referral{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.filter == nil || !r.filter.TestString(code) {
		return Referral{}, false
	}

	owner, ok := r.codes[code]
	if !ok {
		return Referral{}, false
	}
	return Referral{Code: code, ReferredBy: owner}, true
}

// IsValid reports whether code is a known referral code
func (r *Registry) IsValid(code string) bool {
	_, ok := r.Lookup(code)
	return ok
}

// GetStats returns statistics about loaded referral codes
func (r *Registry) GetStats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["total_sources"] = len(r.sources)
	stats["sources"] = append([]string(nil), r.sources...)
	stats["total_codes"] = len(r.codes)

	return stats
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validLength(code string) bool {
	return len(code) >= minCodeLength && len(code) <= maxCodeLength
}
