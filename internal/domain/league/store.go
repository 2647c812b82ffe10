package league

import "context"

// Store describes the persistence needs of the league engine. Load never
// fails fatally: missing or unreadable stored data yields the default
// dataset. Save replaces the whole document, last writer wins. Clear removes
// the stored document entirely so the next Load starts from defaults.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
	Clear(ctx context.Context) error
}
