package taskwarrior

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

type Client struct {
	// Binary is the taskwarrior executable, "task" by default.
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// GetTasks runs `task <filter> export` with hooks disabled.
func (c *Client) GetTasks(ctx context.Context, filter []string) ([]Task, error) {
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	cmd := exec.CommandContext(ctx, c.Binary, args...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, %s, stderr: %s",
				exitErr.ExitCode(), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return c.ParseTasks(bytes.NewReader(output))
}

// ParseTasks accepts both the JSON array written by `task export` and a
// stream of one object per line, which includes a single object.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	br := bufio.NewReader(r)
	first, err := firstByte(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(br)
	if first == '[' {
		var tasks []Task
		if err := decoder.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		return tasks, nil
	}

	var tasks []Task
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func firstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		return b, br.UnreadByte()
	}
}

// Records converts exported tasks into import records. Deleted and
// recurring template tasks are skipped.
func Records(tasks []Task) []model.Imported {
	var out []model.Imported
	for _, t := range tasks {
		if t.Status == DELETED || t.Status == RECURRING {
			continue
		}
		rec := model.Imported{
			Draft: model.Draft{
				Name:      t.Description,
				TicketRef: t.Project,
				Status:    status(t),
			},
			ExternalID: t.UUID,
			DependsOn:  t.Depends,
		}
		if t.Due.isSet() {
			rec.DueDate = t.Due.Time.In(time.Local).Format(model.TimestampLayout)
		}
		if len(t.Tags) > 0 {
			rec.Description = "Tags: " + strings.Join(t.Tags, ", ")
		}
		for _, a := range t.Annotations {
			at := time.Now()
			if a.Entry.isSet() {
				at = a.Entry.Time.In(time.Local)
			}
			rec.Comments = append(rec.Comments, model.NewComment(a.Description, at))
		}
		out = append(out, rec)
	}
	return out
}

func status(t Task) string {
	switch {
	case t.Status == COMPLETED:
		return model.COMPLETED
	case t.Start.isSet():
		return model.IN_PROGRESS
	default:
		return model.PENDING
	}
}

type dependsList []string

func (d *dependsList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*d = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return fmt.Errorf("failed to parse depends: %w", err)
	}
	*d = nil
	for _, id := range strings.Split(joined, ",") {
		if id = strings.TrimSpace(id); id != "" {
			*d = append(*d, id)
		}
	}
	return nil
}
