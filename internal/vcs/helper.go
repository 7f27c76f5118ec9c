// Package vcs drives the external revision-control helper sub-process:
// a small command-line program that knows how to list tags,
// enumerate blobs, fetch blob bytes, tokenize a blob, and extract
// definitions and documentation anchors for one project's checkout. This
// package treats it purely as a line-framed byte stream producer and never
// decodes its output as text before splitting it into records — paths and
// identifiers can contain non-UTF-8 bytes in historical source trees.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/xrefdb/indexer/internal/model"
)

// Helper wraps the path to the revision-control helper executable.
type Helper struct {
	path string
	repo string // repository root, passed via environment to the helper
}

// New returns a Helper invoking the binary at path against the checkout at repoDir.
func New(path, repoDir string) *Helper {
	return &Helper{path: path, repo: repoDir}
}

func (h *Helper) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, h.path, args...)
	cmd.Env = append(cmd.Env, "XREF_REPO_DIR="+h.repo)
	return cmd
}

// runLines runs the helper and returns its stdout split into raw byte
// lines (no trailing newline, no UTF-8 decoding), or an error wrapping the
// helper's failure — a helper exit failure is fatal to the whole indexing
// run.
func (h *Helper) runLines(ctx context.Context, args ...string) ([][]byte, error) {
	cmd := h.command(ctx, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("vcs: helper %v failed: %w", args, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	out = bytes.TrimSuffix(out, []byte("\n"))
	return bytes.Split(out, []byte("\n")), nil
}

// ListTags returns every tag name known to the repository, one per line of
// `list-tags` output.
func (h *Helper) ListTags(ctx context.Context) ([][]byte, error) {
	return h.runLines(ctx, "list-tags")
}

// BlobBasename is one line of `list-blobs -f <tag>`: a hash and a bare basename.
type BlobBasename struct {
	Hash     []byte
	Basename string
}

// ListBlobsBasenames returns the (hash, basename) pairs for tag, in the
// order BlobIdAssigner must assign ids.
func (h *Helper) ListBlobsBasenames(ctx context.Context, tag []byte) ([]BlobBasename, error) {
	lines, err := h.runLines(ctx, "list-blobs", "-f", string(tag))
	if err != nil {
		return nil, err
	}
	out := make([]BlobBasename, 0, len(lines))
	for _, l := range lines {
		hash, basename, err := splitHashField(l)
		if err != nil {
			return nil, err
		}
		out = append(out, BlobBasename{Hash: hash, Basename: string(basename)})
	}
	return out, nil
}

// BlobPath is one line of `list-blobs -p <tag>`: a hash and a full repository path.
type BlobPath struct {
	Hash []byte
	Path string
}

// ListBlobsPaths returns the (hash, path) pairs for tag.
func (h *Helper) ListBlobsPaths(ctx context.Context, tag []byte) ([]BlobPath, error) {
	lines, err := h.runLines(ctx, "list-blobs", "-p", string(tag))
	if err != nil {
		return nil, err
	}
	out := make([]BlobPath, 0, len(lines))
	for _, l := range lines {
		hash, path, err := splitHashField(l)
		if err != nil {
			return nil, err
		}
		out = append(out, BlobPath{Hash: hash, Path: string(path)})
	}
	return out, nil
}

func splitHashField(line []byte) (hash, rest []byte, err error) {
	i := bytes.IndexByte(line, ' ')
	if i < 0 {
		return nil, nil, fmt.Errorf("vcs: malformed helper line %q", line)
	}
	return line[:i], line[i+1:], nil
}

// GetBlob fetches the raw bytes of the blob identified by hash.
func (h *Helper) GetBlob(ctx context.Context, hash []byte) ([]byte, error) {
	cmd := h.command(ctx, "get-blob", string(hash))
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("vcs: get-blob %x failed: %w", hash, err)
	}
	return out, nil
}

// DefRecord is one line of `parse-defs`: an identifier, its kind, and its
// line number.
type DefRecord struct {
	Ident string
	Kind  model.Kind
	Line  int
}

// ParseDefs extracts every definition in the blob identified by hash.
// Unknown kind characters are silently skipped.
func (h *Helper) ParseDefs(ctx context.Context, hash []byte, filename string, family model.Family) ([]DefRecord, error) {
	lines, err := h.runLines(ctx, "parse-defs", string(hash), filename, family.String())
	if err != nil {
		return nil, err
	}
	out := make([]DefRecord, 0, len(lines))
	for _, l := range lines {
		fields := bytes.SplitN(l, []byte(" "), 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("vcs: malformed parse-defs line %q", l)
		}
		kind, ok := model.KindFromByte(fields[1][0])
		if !ok {
			continue
		}
		line, err := strconv.Atoi(string(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("vcs: malformed parse-defs line number %q: %w", l, err)
		}
		out = append(out, DefRecord{Ident: string(fields[0]), Kind: kind, Line: line})
	}
	return out, nil
}

// DocRecord is one line of `parse-docs`: an identifier and its line number.
type DocRecord struct {
	Ident string
	Line  int
}

// ParseDocs extracts every documentation-comment anchor in the blob
// identified by hash.
func (h *Helper) ParseDocs(ctx context.Context, hash []byte, filename string) ([]DocRecord, error) {
	lines, err := h.runLines(ctx, "parse-docs", string(hash), filename)
	if err != nil {
		return nil, err
	}
	out := make([]DocRecord, 0, len(lines))
	for _, l := range lines {
		fields := bytes.SplitN(l, []byte(" "), 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("vcs: malformed parse-docs line %q", l)
		}
		line, err := strconv.Atoi(string(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("vcs: malformed parse-docs line number %q: %w", l, err)
		}
		out = append(out, DocRecord{Ident: string(fields[0]), Line: line})
	}
	return out, nil
}

// CompatRecord is one (compatible-string, line) pair emitted while parsing
// a device-tree source or binding document.
type CompatRecord struct {
	Compatible string
	Line       int
}

// DtsComp reports whether the device-tree compatible-string feature is
// enabled for this repository (`dts-comp` returns a nonzero integer).
func (h *Helper) DtsComp(ctx context.Context) (bool, error) {
	cmd := h.command(ctx, "dts-comp")
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("vcs: dts-comp failed: %w", err)
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(out)))
	if err != nil {
		return false, fmt.Errorf("vcs: malformed dts-comp output %q: %w", out, err)
	}
	return n != 0, nil
}

// TokenStream streams the alternating non-identifier/identifier chunks of
// `tokenize-file -b`, keeping the whole blob off the heap at once — bounded
// memory over potentially gigabyte-scale historical source.
type TokenStream struct {
	cmd     *exec.Cmd
	scanner *bufio.Scanner
	stdout  io.ReadCloser
	even    bool // true after an odd number of tokens read: next token is an identifier chunk
}

// TokenizeFile starts the tokenizer for the blob identified by hash in
// boundary-marked mode and returns a stream the caller must Close.
func (h *Helper) TokenizeFile(ctx context.Context, hash []byte, family model.Family) (*TokenStream, error) {
	cmd := h.command(ctx, "tokenize-file", "-b", string(hash), family.String())
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("vcs: tokenize-file %x: %w", hash, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("vcs: tokenize-file %x: %w", hash, err)
	}
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &TokenStream{cmd: cmd, scanner: scanner, stdout: stdout}, nil
}

// Next returns the next chunk and whether it's an identifier chunk. ok is
// false once the stream is exhausted.
func (ts *TokenStream) Next() (tok []byte, isIdent bool, ok bool) {
	if !ts.scanner.Scan() {
		return nil, false, false
	}
	isIdent = ts.even
	ts.even = !ts.even
	return ts.scanner.Bytes(), isIdent, true
}

// Close waits for the tokenizer process to exit and reports any error.
func (ts *TokenStream) Close() error {
	_ = ts.stdout.Close()
	if err := ts.cmd.Wait(); err != nil {
		return fmt.Errorf("vcs: tokenize-file: %w", err)
	}
	return ts.scanner.Err()
}
