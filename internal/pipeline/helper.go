package pipeline

import (
	"context"

	"github.com/xrefdb/indexer/internal/model"
	"github.com/xrefdb/indexer/internal/vcs"
)

// TokenStream is the subset of *vcs.TokenStream the pipeline consumes,
// pulled out as an interface so tests can drive RefExtractor against a
// fake tokenizer instead of spawning the real helper subprocess.
type TokenStream interface {
	Next() (tok []byte, isIdent bool, ok bool)
	Close() error
}

// RepoHelper is the subset of *vcs.Helper the pipeline consumes. Extracted
// as an interface for the same reason as TokenStream: every other stage
// runs a whole indexing pass against it in tests without a real checkout
// or helper binary on disk.
type RepoHelper interface {
	ListTags(ctx context.Context) ([][]byte, error)
	ListBlobsBasenames(ctx context.Context, tag []byte) ([]vcs.BlobBasename, error)
	ListBlobsPaths(ctx context.Context, tag []byte) ([]vcs.BlobPath, error)
	GetBlob(ctx context.Context, hash []byte) ([]byte, error)
	ParseDefs(ctx context.Context, hash []byte, filename string, family model.Family) ([]vcs.DefRecord, error)
	ParseDocs(ctx context.Context, hash []byte, filename string) ([]vcs.DocRecord, error)
	DtsComp(ctx context.Context) (bool, error)
	TokenizeFile(ctx context.Context, hash []byte, family model.Family) (TokenStream, error)
}

type vcsHelperAdapter struct {
	h *vcs.Helper
}

// WrapHelper adapts a concrete *vcs.Helper to the RepoHelper interface for
// use by Coordinator.
func WrapHelper(h *vcs.Helper) RepoHelper { return vcsHelperAdapter{h: h} }

func (a vcsHelperAdapter) ListTags(ctx context.Context) ([][]byte, error) { return a.h.ListTags(ctx) }

func (a vcsHelperAdapter) ListBlobsBasenames(ctx context.Context, tag []byte) ([]vcs.BlobBasename, error) {
	return a.h.ListBlobsBasenames(ctx, tag)
}

func (a vcsHelperAdapter) ListBlobsPaths(ctx context.Context, tag []byte) ([]vcs.BlobPath, error) {
	return a.h.ListBlobsPaths(ctx, tag)
}

func (a vcsHelperAdapter) GetBlob(ctx context.Context, hash []byte) ([]byte, error) {
	return a.h.GetBlob(ctx, hash)
}

func (a vcsHelperAdapter) ParseDefs(ctx context.Context, hash []byte, filename string, family model.Family) ([]vcs.DefRecord, error) {
	return a.h.ParseDefs(ctx, hash, filename, family)
}

func (a vcsHelperAdapter) ParseDocs(ctx context.Context, hash []byte, filename string) ([]vcs.DocRecord, error) {
	return a.h.ParseDocs(ctx, hash, filename)
}

func (a vcsHelperAdapter) DtsComp(ctx context.Context) (bool, error) { return a.h.DtsComp(ctx) }

func (a vcsHelperAdapter) TokenizeFile(ctx context.Context, hash []byte, family model.Family) (TokenStream, error) {
	return a.h.TokenizeFile(ctx, hash, family)
}
