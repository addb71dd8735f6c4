package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/msgidl/msgidl/internal/store"
)

// LatestRef selects the most recent build wherever a build id is accepted.
const LatestRef = "latest"

// openStoreForRead opens the build store. A missing store file means no
// build was ever recorded.
func openStoreForRead(opts *RootOptions) (*store.Store, error) {
	path := opts.storePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no build store at %s (run compile --record first)", path)}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}
	return st, nil
}

// resolveBuild looks up a build by id, or the latest build for LatestRef.
func resolveBuild(ctx context.Context, st *store.Store, ref string) (store.Build, error) {
	var b store.Build
	var err error
	if ref == LatestRef {
		b, err = st.LatestBuild(ctx)
	} else {
		b, err = st.GetBuild(ctx, ref)
	}
	if errors.Is(err, store.ErrNotFound) {
		return store.Build{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("build not found: %s", ref)}
	}
	if err != nil {
		return store.Build{}, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}
	return b, nil
}

// loadStoredSpec looks up the spec of build ref for lang.
func loadStoredSpec(ctx context.Context, st *store.Store, ref, lang string) (store.Build, store.StoredSpec, error) {
	b, err := resolveBuild(ctx, st, ref)
	if err != nil {
		return store.Build{}, store.StoredSpec{}, err
	}
	ss, err := st.LoadSpec(ctx, b.ID, lang)
	if errors.Is(err, store.ErrNotFound) {
		return store.Build{}, store.StoredSpec{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("build %s has no spec for language %s", b.ID, langLabel(lang))}
	}
	if err != nil {
		return store.Build{}, store.StoredSpec{}, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}
	return b, ss, nil
}

// outputStoreError reports a store lookup failure.
func outputStoreError(formatter *OutputFormatter, err error) error {
	code, message := parseError(err)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		code = ErrCodeStore
	}
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
