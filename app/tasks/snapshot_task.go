package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lysyi3m/prop-comb/app/database"
	"github.com/lysyi3m/prop-comb/app/pipeline"
	"github.com/lysyi3m/prop-comb/app/proposal"
)

// snapshotsToKeep bounds database growth per standard; older captures
// have no consumer.
const snapshotsToKeep = 10

type snapshotFile struct {
	GeneratedAt    int64             `json:"generated_at"`
	GeneratedAtISO string            `json:"generated_at_iso"`
	Count          int               `json:"count"`
	Protocol       string            `json:"protocol"`
	Source         string            `json:"source"`
	Items          []proposal.Record `json:"items"`
}

// SnapshotTask captures the current latest-proposals view of one
// standard, publishes it as a JSON file under the data directory and
// records it in the snapshot table.
type SnapshotTask struct {
	Task
	service      *pipeline.Service
	snapshotRepo database.SnapshotRepository
	dataDir      string
}

func NewSnapshotTask(standard string, service *pipeline.Service,
	snapshotRepo database.SnapshotRepository, dataDir string) *SnapshotTask {
	return &SnapshotTask{
		Task:         NewTask(TaskTypeSnapshot, standard),
		service:      service,
		snapshotRepo: snapshotRepo,
		dataDir:      dataDir,
	}
}

func (t *SnapshotTask) Execute(ctx context.Context) error {
	result := t.service.FetchLatestProposals(ctx, []string{t.Standard}, "", 0)
	if len(result.Standards) == 0 {
		return fmt.Errorf("no result for standard %s", t.Standard)
	}
	sr := result.Standards[0]

	now := time.Now().UTC()
	file := snapshotFile{
		GeneratedAt:    now.Unix(),
		GeneratedAtISO: now.Format("2006-01-02 15:04:05 UTC"),
		Count:          len(sr.Items),
		Protocol:       sr.Standard,
		Source:         sr.Source,
		Items:          sr.Items,
	}

	payload, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := t.writeFile(payload); err != nil {
		return err
	}

	items, err := json.Marshal(sr.Items)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot items: %w", err)
	}

	id, err := t.snapshotRepo.SaveSnapshot(database.Snapshot{
		Standard:    sr.Standard,
		Source:      sr.Source,
		GeneratedAt: now,
		ItemCount:   len(sr.Items),
		Payload:     string(items),
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	if removed, err := t.snapshotRepo.PruneSnapshots(sr.Standard, snapshotsToKeep); err != nil {
		slog.Warn("Failed to prune old snapshots", "standard", sr.Standard, "error", err)
	} else if removed > 0 {
		slog.Debug("Pruned old snapshots", "standard", sr.Standard, "removed", removed)
	}

	slog.Info("Snapshot captured", "standard", sr.Standard, "items", len(sr.Items), "snapshot_id", id, "duration", t.GetDuration().String())
	return nil
}

func (t *SnapshotTask) writeFile(payload []byte) error {
	if err := os.MkdirAll(t.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(t.dataDir, strings.ToLower(t.Standard)+"s.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to publish snapshot file: %w", err)
	}
	return nil
}
