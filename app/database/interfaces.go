package database

type SnapshotRepository interface {
	SaveSnapshot(snapshot Snapshot) (int64, error)
	GetLatestSnapshot(standard string) (*Snapshot, error)
	GetSnapshotCount(standard string) (int, error)
	PruneSnapshots(standard string, keep int) (int64, error)
}
