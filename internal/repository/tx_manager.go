package repository

import "context"

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnに渡るrepoはTx内で使う。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r CatalogRepository) error) error
}
