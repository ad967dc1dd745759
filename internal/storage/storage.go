package storage

import "context"

// Archive stores the original uploaded spreadsheet bytes so a dataset's
// source file can be re-downloaded later. The relational tree stays the
// source of truth; archive failures are non-fatal to uploads.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// noopArchive is used when object storage is not configured.
type noopArchive struct{}

func NewNoopArchive() Archive {
	return noopArchive{}
}

func (noopArchive) Put(context.Context, string, []byte, string) error {
	return nil
}

func (noopArchive) Get(context.Context, string) ([]byte, error) {
	return nil, ErrArchiveDisabled
}
