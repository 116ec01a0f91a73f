package orgmode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

var (
	anyHeadline   = regexp.MustCompile(`^\*+\s`)
	headlineRegex = regexp.MustCompile(`^\*+\s+(TODO|NEXT|STARTED|DONE)\s+(?:\[#([A-Z])\]\s*)?(.*?)(?:\s+(:[\w@:]+:))?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{2,3}\.?)?(?:\s+(\d{2}:\d{2}))?[^>]*>`)
	propertyRegex = regexp.MustCompile(`^:([A-Za-z_-]+):\s*(.*)$`)
)

var keywordStatus = map[string]string{
	"TODO":    model.PENDING,
	"NEXT":    model.PENDING,
	"STARTED": model.IN_PROGRESS,
	"DONE":    model.COMPLETED,
}

// headline is one task entry while it is being parsed.
type headline struct {
	rec  model.Imported
	tags []string
	body []string
}

func (h *headline) record() model.Imported {
	rec := h.rec
	rec.Description = strings.TrimSpace(strings.Join(h.body, "\n"))
	if rec.TicketRef == "" && len(h.tags) > 0 {
		rec.TicketRef = h.tags[0]
	}
	return rec
}

func (h *headline) hasTag(tag string) bool {
	for _, t := range h.tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ParseFiles parses multiple Org-mode files. When tag is not empty only
// headlines carrying that tag are returned.
func ParseFiles(filePaths []string, tag string) ([]model.Imported, error) {
	var all []model.Imported
	for _, filePath := range filePaths {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		records, err := Parse(file, tag)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
		all = append(all, records...)
	}
	return all, nil
}

// Parse reads TODO-style headlines from an Org-mode document.
//
// The keyword sets the status, the first tag becomes the ticket reference
// unless a :TICKET: property is present, DEADLINE sets the due date, :ID:
// sets the external id and :BLOCKER: lists the ids the entry depends on.
// Plain body text becomes the description.
func Parse(r io.Reader, tag string) ([]model.Imported, error) {
	scanner := bufio.NewScanner(r)
	var records []model.Imported
	var current *headline
	inDrawer := ""

	flush := func() {
		if current != nil && (tag == "" || current.hasTag(tag)) {
			records = append(records, current.record())
		}
		current = nil
	}

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if anyHeadline.MatchString(raw) {
			flush()
			inDrawer = ""
			matches := headlineRegex.FindStringSubmatch(raw)
			if matches == nil {
				continue
			}
			current = &headline{}
			current.rec.Status = keywordStatus[matches[1]]
			current.rec.Name = strings.TrimSpace(matches[3])
			if matches[4] != "" {
				current.tags = strings.Split(strings.Trim(matches[4], ":"), ":")
			}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case line == ":END:":
			inDrawer = ""
		case inDrawer == "" && (line == ":PROPERTIES:" || line == ":LOGBOOK:"):
			inDrawer = line
		case inDrawer == ":PROPERTIES:":
			if m := propertyRegex.FindStringSubmatch(line); m != nil {
				current.setProperty(strings.ToUpper(m[1]), strings.TrimSpace(m[2]))
			}
		case inDrawer != "":
			// logbook entries are not carried over
		case strings.Contains(line, "DEADLINE:") || strings.HasPrefix(line, "SCHEDULED:") || strings.HasPrefix(line, "CLOSED:"):
			if m := deadlineRegex.FindStringSubmatch(line); m != nil {
				current.rec.DueDate = dueDate(m[1], m[2])
			}
		default:
			current.body = append(current.body, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (h *headline) setProperty(key, value string) {
	switch key {
	case "ID", "CUSTOM_ID":
		if h.rec.ExternalID == "" || key == "ID" {
			h.rec.ExternalID = value
		}
	case "TICKET":
		h.rec.TicketRef = value
	case "BLOCKER":
		for _, field := range strings.Fields(value) {
			field = strings.TrimSuffix(strings.TrimPrefix(field, "ids("), ")")
			if field != "" {
				h.rec.DependsOn = append(h.rec.DependsOn, field)
			}
		}
	}
}

// dueDate keeps the deadline's time of day when given and otherwise uses
// the end of that day.
func dueDate(day, clock string) string {
	if clock == "" {
		return day + " 23:59:59"
	}
	return day + " " + clock + ":00"
}
