package launchpad

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Matgenix/abiflows/internal/execspec"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/task"
)

// ErrWorkflowNotFound is returned when no workflow exists under the given id.
var ErrWorkflowNotFound = errors.New("launchpad: workflow not found")

// AddWorkflow submits a workflow graph: it persists containers, links and
// metadata, assigns engine ids to the containers, and returns the assigned
// workflow id.
func (lp *LaunchPad) AddWorkflow(ctx context.Context, wf *firework.Workflow) (string, error) {
	tx, err := lp.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin submit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	metadata, err := json.Marshal(wf.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshal workflow metadata: %w", err)
	}
	now := lp.now().UTC().Format(time.RFC3339Nano)

	_, err = tx.ExecContext(ctx, `
INSERT INTO workflows(id, name, metadata, created_at) VALUES(?, ?, ?, ?);
`, id, wf.Name, string(metadata), now)
	if err != nil {
		return "", fmt.Errorf("insert workflow: %w", err)
	}

	for seq, fw := range wf.Fireworks() {
		spec, err := json.Marshal(fw.Spec)
		if err != nil {
			return "", fmt.Errorf("marshal spec of %q: %w", fw.Name, err)
		}
		tasks, err := task.MarshalTasks(fw.Tasks)
		if err != nil {
			return "", fmt.Errorf("marshal tasks of %q: %w", fw.Name, err)
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO fireworks(workflow_id, seq, name, spec, tasks) VALUES(?, ?, ?, ?, ?);
`, id, seq, fw.Name, string(spec), string(tasks))
		if err != nil {
			return "", fmt.Errorf("insert container %q: %w", fw.Name, err)
		}
		engineID, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("container id for %q: %w", fw.Name, err)
		}
		fw.EngineID = int(engineID)
	}

	for _, from := range wf.Fireworks() {
		for _, to := range wf.Children(from) {
			_, err := tx.ExecContext(ctx, `
INSERT INTO links(workflow_id, from_fw, to_fw) VALUES(?, ?, ?);
`, id, from.EngineID, to.EngineID)
			if err != nil {
				return "", fmt.Errorf("insert link %q -> %q: %w", from.Name, to.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit submit: %w", err)
	}
	return id, nil
}

// GetWorkflow reloads a persisted workflow graph, including metadata,
// precedence links and per-container launch records. Containers come back
// in submission (creation) order.
func (lp *LaunchPad) GetWorkflow(ctx context.Context, id string) (*firework.Workflow, error) {
	var name, metadataJSON string
	err := lp.db.QueryRowContext(ctx, `
SELECT name, metadata FROM workflows WHERE id = ?;
`, id).Scan(&name, &metadataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load workflow %s: %w", id, err)
	}
	metadata := make(map[string]any)
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", id, err)
	}

	rows, err := lp.db.QueryContext(ctx, `
SELECT id, name, spec, tasks FROM fireworks WHERE workflow_id = ? ORDER BY seq;
`, id)
	if err != nil {
		return nil, fmt.Errorf("load containers of %s: %w", id, err)
	}
	defer rows.Close()

	var fws []*firework.Firework
	byID := make(map[int]*firework.Firework)
	for rows.Next() {
		var engineID int
		var fwName, specJSON, tasksJSON string
		if err := rows.Scan(&engineID, &fwName, &specJSON, &tasksJSON); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		var spec execspec.Spec
		if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
			return nil, fmt.Errorf("decode spec of container %d: %w", engineID, err)
		}
		tasks, err := task.UnmarshalTasks([]byte(tasksJSON))
		if err != nil {
			return nil, fmt.Errorf("decode tasks of container %d: %w", engineID, err)
		}
		fw := firework.New(spec, fwName, tasks...)
		fw.EngineID = engineID
		fws = append(fws, fw)
		byID[engineID] = fw
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers of %s: %w", id, err)
	}

	links, err := lp.loadLinks(ctx, id, byID)
	if err != nil {
		return nil, err
	}

	wf, err := firework.NewWorkflow(name, fws, links, metadata)
	if err != nil {
		return nil, fmt.Errorf("reassemble workflow %s: %w", id, err)
	}

	for _, fw := range fws {
		launches, err := lp.loadLaunches(ctx, fw.EngineID)
		if err != nil {
			return nil, err
		}
		if len(launches) > 0 {
			wf.SetLaunches(fw, launches...)
		}
	}
	return wf, nil
}

func (lp *LaunchPad) loadLinks(ctx context.Context, id string, byID map[int]*firework.Firework) (map[*firework.Firework][]*firework.Firework, error) {
	rows, err := lp.db.QueryContext(ctx, `
SELECT from_fw, to_fw FROM links WHERE workflow_id = ?;
`, id)
	if err != nil {
		return nil, fmt.Errorf("load links of %s: %w", id, err)
	}
	defer rows.Close()

	links := make(map[*firework.Firework][]*firework.Firework)
	for rows.Next() {
		var fromID, toID int
		if err := rows.Scan(&fromID, &toID); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		from, ok := byID[fromID]
		if !ok {
			return nil, fmt.Errorf("link references unknown container %d", fromID)
		}
		to, ok := byID[toID]
		if !ok {
			return nil, fmt.Errorf("link references unknown container %d", toID)
		}
		links[from] = append(links[from], to)
	}
	return links, rows.Err()
}

func (lp *LaunchPad) loadLaunches(ctx context.Context, fwID int) ([]firework.Launch, error) {
	rows, err := lp.db.QueryContext(ctx, `
SELECT id, dir, runtime_secs, state, archived, started_at
FROM launches WHERE fw_id = ? ORDER BY started_at;
`, fwID)
	if err != nil {
		return nil, fmt.Errorf("load launches of container %d: %w", fwID, err)
	}
	defer rows.Close()

	var launches []firework.Launch
	for rows.Next() {
		var l firework.Launch
		var state, startedAt string
		var archived int
		if err := rows.Scan(&l.ID, &l.Dir, &l.RuntimeSecs, &state, &archived, &startedAt); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		l.State = firework.LaunchState(state)
		l.Archived = archived != 0
		l.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse launch start time %q: %w", startedAt, err)
		}
		launches = append(launches, l)
	}
	return launches, rows.Err()
}

// RecordLaunch stores one launch attempt against a submitted container.
func (lp *LaunchPad) RecordLaunch(ctx context.Context, fwID int, l firework.Launch) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.StartedAt.IsZero() {
		l.StartedAt = lp.now()
	}
	archived := 0
	if l.Archived {
		archived = 1
	}
	_, err := lp.db.ExecContext(ctx, `
INSERT INTO launches(id, fw_id, dir, runtime_secs, state, archived, started_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, l.ID, fwID, l.Dir, l.RuntimeSecs, string(l.State), archived, l.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// Result is one document persisted by the database-insertion step.
type Result struct {
	ID         string
	WorkflowID string
	Kind       string
	Document   map[string]any
	CreatedAt  time.Time
}

// InsertResult persists an extracted result document for a workflow.
func (lp *LaunchPad) InsertResult(ctx context.Context, workflowID, kind string, document map[string]any) (string, error) {
	doc, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("marshal result document: %w", err)
	}
	id := uuid.NewString()
	now := lp.now().UTC()
	_, err = lp.db.ExecContext(ctx, `
INSERT INTO results(id, workflow_id, kind, document, created_at) VALUES(?, ?, ?, ?, ?);
`, id, workflowID, kind, string(doc), now.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return id, nil
}

// Results returns the persisted result documents of a workflow, oldest first.
func (lp *LaunchPad) Results(ctx context.Context, workflowID string) ([]Result, error) {
	rows, err := lp.db.QueryContext(ctx, `
SELECT id, workflow_id, kind, document, created_at
FROM results WHERE workflow_id = ? ORDER BY created_at;
`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("load results of %s: %w", workflowID, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var doc, createdAt string
		if err := rows.Scan(&r.ID, &r.WorkflowID, &r.Kind, &doc, &createdAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(doc), &r.Document); err != nil {
			return nil, fmt.Errorf("decode result %s: %w", r.ID, err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse result time %q: %w", createdAt, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
