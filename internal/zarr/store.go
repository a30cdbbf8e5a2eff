// store.go implements the on-disk directory store: groups as directories
// with .zgroup/.zattrs documents, arrays as directories with .zarray plus
// chunk files.
package zarr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// DirectoryStore is a Zarr store backed by a filesystem directory tree.
type DirectoryStore struct {
	root string
}

// Create initializes a new store at the given path and returns its root
// group. The directory is created if necessary; an existing .zgroup is
// overwritten.
func Create(path string) (*Group, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating store at %s: %w", path, err)
	}
	store := &DirectoryStore{root: path}
	root := &Group{store: store, path: ""}
	if err := root.writeGroupMeta(); err != nil {
		return nil, err
	}
	return root, nil
}

// Open returns the root group of an existing store. It fails when the
// path does not contain a .zgroup document.
func Open(path string) (*Group, error) {
	if _, err := os.Stat(filepath.Join(path, ".zgroup")); err != nil {
		return nil, fmt.Errorf("%s is not a zarr group: %w", path, err)
	}
	return &Group{store: &DirectoryStore{root: path}, path: ""}, nil
}

// Group is a node in the store hierarchy. The root group has an empty path.
type Group struct {
	store *DirectoryStore
	path  string
}

// Path returns the group's path within the store ("" for the root).
func (g *Group) Path() string {
	return g.path
}

// dir returns the group's absolute filesystem directory.
func (g *Group) dir() string {
	return filepath.Join(g.store.root, filepath.FromSlash(g.path))
}

// writeGroupMeta writes the group's .zgroup document.
func (g *Group) writeGroupMeta() error {
	return writeJSON(filepath.Join(g.dir(), ".zgroup"), groupMeta{ZarrFormat: zarrFormat})
}

// RequireGroup returns the named child group, creating it (directory plus
// .zgroup) if it does not exist yet. The name may contain "/" to create
// several levels at once (e.g., "B/4").
func (g *Group) RequireGroup(name string) (*Group, error) {
	child := &Group{store: g.store, path: joinPath(g.path, name)}

	// Every intermediate level needs its own .zgroup so readers treat it
	// as a group rather than an unknown directory.
	parts := strings.Split(name, "/")
	path := g.path
	for _, part := range parts {
		path = joinPath(path, part)
		level := &Group{store: g.store, path: path}
		if err := os.MkdirAll(level.dir(), 0o755); err != nil {
			return nil, fmt.Errorf("creating group %s: %w", path, err)
		}
		if _, err := os.Stat(filepath.Join(level.dir(), ".zgroup")); os.IsNotExist(err) {
			if err := level.writeGroupMeta(); err != nil {
				return nil, err
			}
		}
	}

	return child, nil
}

// Child returns the named existing child group without creating it. The
// name may contain "/". It fails when the target is not a group (missing
// directory or missing .zgroup).
func (g *Group) Child(name string) (*Group, error) {
	child := &Group{store: g.store, path: joinPath(g.path, name)}
	if _, err := os.Stat(filepath.Join(child.dir(), ".zgroup")); err != nil {
		return nil, fmt.Errorf("group %q not found: %w", child.path, err)
	}
	return child, nil
}

// SetAttrs writes the group's .zattrs document. The value is marshaled
// as-is, so callers control the exact JSON structure.
func (g *Group) SetAttrs(attrs interface{}) error {
	return writeJSON(filepath.Join(g.dir(), ".zattrs"), attrs)
}

// Attrs reads the group's .zattrs document into out. A missing .zattrs is
// an error: callers only ask for attributes they expect to exist.
func (g *Group) Attrs(out interface{}) error {
	data, err := os.ReadFile(filepath.Join(g.dir(), ".zattrs"))
	if err != nil {
		return fmt.Errorf("reading attrs of group %q: %w", g.path, err)
	}
	return json.Unmarshal(data, out)
}

// RawAttrs reads the group's .zattrs document as raw JSON bytes.
func (g *Group) RawAttrs() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(g.dir(), ".zattrs"))
	if err != nil {
		return nil, fmt.Errorf("reading attrs of group %q: %w", g.path, err)
	}
	return data, nil
}

// CreateArray writes the array under the given name with the given chunk
// shape. Chunk payloads are deflate-compressed when compressionLevel is
// 1..9; level 0 writes raw chunks and a null compressor. It returns the
// total number of payload bytes written (after compression).
func (g *Group) CreateArray(name string, a *Array, chunks []int, compressionLevel int) (int64, error) {
	if len(chunks) != len(a.Shape) {
		return 0, fmt.Errorf("chunk rank %d does not match array rank %d", len(chunks), len(a.Shape))
	}
	for i, c := range chunks {
		if c <= 0 || c > a.Shape[i] {
			return 0, fmt.Errorf("invalid chunk shape %v for array shape %v", chunks, a.Shape)
		}
	}
	if compressionLevel < 0 || compressionLevel > 9 {
		return 0, fmt.Errorf("invalid compression level %d (0-9)", compressionLevel)
	}

	arrayDir := filepath.Join(g.dir(), filepath.FromSlash(name))
	if err := os.MkdirAll(arrayDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating array %s: %w", name, err)
	}

	var compressor *CompressorConfig
	if compressionLevel > 0 {
		compressor = &CompressorConfig{ID: "zlib", Level: compressionLevel}
	}

	meta := ArrayMeta{
		Shape:              append([]int(nil), a.Shape...),
		Chunks:             append([]int(nil), chunks...),
		DType:              a.DType.NumpyString(),
		Compressor:         compressor,
		FillValue:          0,
		Order:              "C",
		Filters:            nil,
		DimensionSeparator: "/",
		ZarrFormat:         zarrFormat,
	}
	if err := writeJSON(filepath.Join(arrayDir, ".zarray"), meta); err != nil {
		return 0, err
	}

	// Walk the chunk grid and emit every chunk. Edge chunks are stored at
	// full chunk size with zero padding, per the Zarr v2 layout.
	grid := make([]int, len(a.Shape))
	for i := range grid {
		grid[i] = (a.Shape[i] + chunks[i] - 1) / chunks[i]
	}

	var written int64
	indices := make([]int, len(grid))
	for {
		offset := make([]int, len(indices))
		for i := range indices {
			offset[i] = indices[i] * chunks[i]
		}
		raw := extractRegion(a.Data, a.Shape, offset, chunks, a.DType.ItemSize())

		payload := raw
		if compressionLevel > 0 {
			var buf bytes.Buffer
			zw, err := zlib.NewWriterLevel(&buf, compressionLevel)
			if err != nil {
				return written, fmt.Errorf("zlib level %d: %w", compressionLevel, err)
			}
			if _, err := zw.Write(raw); err != nil {
				return written, fmt.Errorf("compressing chunk: %w", err)
			}
			if err := zw.Close(); err != nil {
				return written, fmt.Errorf("compressing chunk: %w", err)
			}
			payload = buf.Bytes()
		}

		key := ChunkKey(indices, "/")
		chunkPath := filepath.Join(arrayDir, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(chunkPath), 0o755); err != nil {
			return written, fmt.Errorf("creating chunk directory: %w", err)
		}
		if err := os.WriteFile(chunkPath, payload, 0o644); err != nil {
			return written, fmt.Errorf("writing chunk %s: %w", key, err)
		}
		written += int64(len(payload))

		if !nextIndex(indices, grid) {
			break
		}
	}

	return written, nil
}

// ArrayMeta reads the .zarray document of the named child array.
func (g *Group) ArrayMeta(name string) (*ArrayMeta, error) {
	data, err := os.ReadFile(filepath.Join(g.dir(), filepath.FromSlash(name), ".zarray"))
	if err != nil {
		return nil, fmt.Errorf("reading array metadata %s: %w", name, err)
	}
	var meta ArrayMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing .zarray of %s: %w", name, err)
	}
	return &meta, nil
}

// ReadChunk reads and decompresses one chunk of the named child array.
func (g *Group) ReadChunk(name string, indices []int) ([]byte, error) {
	meta, err := g.ArrayMeta(name)
	if err != nil {
		return nil, err
	}

	sep := meta.DimensionSeparator
	if sep == "" {
		sep = "."
	}
	key := ChunkKey(indices, sep)
	path := filepath.Join(g.dir(), filepath.FromSlash(name), filepath.FromSlash(key))

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chunk %s: %w", key, err)
	}
	if meta.Compressor == nil {
		return payload, nil
	}
	if meta.Compressor.ID != "zlib" {
		return nil, fmt.Errorf("unsupported compressor %q", meta.Compressor.ID)
	}

	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decompressing chunk %s: %w", key, err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// nextIndex advances a multi-dimensional grid index in row-major order.
// It returns false once the index space is exhausted.
func nextIndex(indices, grid []int) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < grid[i] {
			return true
		}
		indices[i] = 0
	}
	return false
}

// joinPath joins store-internal paths with "/" (never the OS separator).
func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}

// writeJSON marshals v with indentation and writes it to path.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
