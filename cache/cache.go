// Package cache persists synthesized utterance audio on disk so
// repeated text skips the engine entirely. Entries are zstd-compressed
// PCM keyed by the session's request fingerprint.
package cache

import (
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const indexFile = "index.gob"

// Disk is a bounded disk cache of int16 sample buffers. Failures are
// logged and degrade to misses; a broken cache never breaks speech.
type Disk struct {
	mu       sync.Mutex
	basePath string
	capacity int64 // bytes on disk
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*entry
}

// entry is one cached utterance in the on-disk index.
type entry struct {
	Key        string
	Size       int64 // compressed size on disk
	Samples    int64 // decoded sample count
	LastAccess time.Time
}

// New opens (or creates) a disk cache under basePath holding at most
// capacity bytes of compressed audio.
func New(basePath string, capacity int64) (*Disk, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	d := &Disk{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*entry),
	}
	d.loadIndex()
	return d, nil
}

// Get implements synth.AudioCache. A corrupt or missing file drops the
// entry and reports a miss.
func (d *Disk) Get(key string) ([]int16, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.index[key]
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(d.entryPath(key))
	if err != nil {
		d.drop(e)
		return nil, false
	}

	raw, err := d.decoder.DecodeAll(data, nil)
	if err != nil || int64(len(raw)/2) != e.Samples {
		log.Warn("corrupt cache entry dropped", "key", key)
		d.drop(e)
		return nil, false
	}

	e.LastAccess = time.Now()
	return bytesToSamples(raw), true
}

// Put implements synth.AudioCache.
func (d *Disk) Put(key string, samples []int16) {
	if len(samples) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	compressed := d.encoder.EncodeAll(samplesToBytes(samples), nil)
	if int64(len(compressed)) > d.capacity {
		return
	}

	path := d.entryPath(key)
	if err := writeAtomic(path, compressed); err != nil {
		log.Warn("cache write failed", "key", key, "err", err)
		return
	}

	if old, ok := d.index[key]; ok {
		d.size -= old.Size
	}
	d.index[key] = &entry{
		Key:        key,
		Size:       int64(len(compressed)),
		Samples:    int64(len(samples)),
		LastAccess: time.Now(),
	}
	d.size += int64(len(compressed))

	d.evict()
	d.saveIndex()
}

// Len returns the number of cached utterances.
func (d *Disk) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.index)
}

// Close flushes the index and releases the compressor.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saveIndex()
	d.encoder.Close() //nolint:errcheck
	d.decoder.Close()
	return nil
}

// evict removes least recently used entries until the cache fits its
// capacity. Caller holds the lock.
func (d *Disk) evict() {
	for d.size > d.capacity {
		var oldest *entry
		for _, e := range d.index {
			if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
				oldest = e
			}
		}
		if oldest == nil {
			return
		}
		os.Remove(d.entryPath(oldest.Key)) //nolint:errcheck
		d.drop(oldest)
	}
}

// drop removes an entry from the index. Caller holds the lock.
func (d *Disk) drop(e *entry) {
	delete(d.index, e.Key)
	d.size -= e.Size
}

func (d *Disk) entryPath(key string) string {
	return filepath.Join(d.basePath, key+".zst")
}

// loadIndex restores the index from disk; a missing or unreadable
// index just starts empty. Caller holds no lock yet (constructor).
func (d *Disk) loadIndex() {
	f, err := os.Open(filepath.Join(d.basePath, indexFile))
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck

	var entries []*entry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		log.Warn("cache index unreadable, starting empty", "err", err)
		return
	}
	for _, e := range entries {
		d.index[e.Key] = e
		d.size += e.Size
	}
}

// saveIndex writes the index atomically. Caller holds the lock.
func (d *Disk) saveIndex() {
	tmp, err := os.CreateTemp(d.basePath, "index-*.tmp")
	if err != nil {
		log.Warn("cache index save failed", "err", err)
		return
	}

	entries := make([]*entry, 0, len(d.index))
	for _, e := range d.index {
		entries = append(entries, e)
	}
	if err := gob.NewEncoder(tmp).Encode(entries); err != nil {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmp.Name()) //nolint:errcheck
		log.Warn("cache index save failed", "err", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.basePath, indexFile)); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		log.Warn("cache index save failed", "err", err)
	}
}

// writeAtomic writes data via a temp file and rename so readers never
// see a partial entry.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmp.Name()) //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func samplesToBytes(samples []int16) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	return b
}

func bytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return samples
}
