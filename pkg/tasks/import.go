package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

// Import creates one task per record, replays the record's comments with
// their original timestamps, and then links dependencies by external id.
// External ids that do not belong to the batch are skipped. It returns the
// number of tasks created.
func (m *Manager) Import(ctx context.Context, records []model.Imported) (int, error) {
	byExternal := make(map[string]string, len(records))
	ids := make([]string, len(records))
	created := 0

	for i, rec := range records {
		id, err := m.AddTask(ctx, rec.Draft)
		if errors.Is(err, ErrEmptyName) {
			m.logger.Warn("skipping unnamed import record", "external_id", rec.ExternalID)
			continue
		}
		if id != "" {
			// kept in memory even when the write failed
			created++
		}
		if err != nil {
			return created, fmt.Errorf("failed to import %q: %w", rec.Name, err)
		}
		ids[i] = id
		if rec.ExternalID != "" {
			byExternal[rec.ExternalID] = id
		}

		comments := append([]model.Comment(nil), rec.Comments...)
		sort.SliceStable(comments, func(a, b int) bool {
			return comments[a].Timestamp < comments[b].Timestamp
		})
		t := m.byID[id]
		for _, c := range comments {
			t.Comments = append(t.Comments, c)
			if err := m.store.AppendComment(ctx, id, c); err != nil {
				return created, m.storeError("import comment", err)
			}
		}
	}

	for i, rec := range records {
		id := ids[i]
		if id == "" {
			continue
		}
		for _, ext := range rec.DependsOn {
			depID, ok := byExternal[ext]
			if !ok {
				continue
			}
			err := m.AddDependency(ctx, id, depID)
			if err != nil && !errors.Is(err, ErrInvalidOperation) {
				return created, err
			}
		}
	}
	m.logger.Info("import finished", "records", len(records), "created", created)
	return created, nil
}
