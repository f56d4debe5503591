package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the remote calls a batch tool runs at once.
const DefaultConcurrency = 4

// Outcome is the result for one id.
type Outcome struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the operation on this id failed.
func (o Outcome) Failed() bool {
	return o.Status == "error"
}

// Report aggregates the outcomes of a batch, in request order.
type Report struct {
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Results    []Outcome `json:"results"`
}

// NewReport counts successes and failures.
func NewReport(outcomes []Outcome) Report {
	r := Report{Total: len(outcomes), Results: outcomes}
	for _, o := range outcomes {
		if o.Failed() {
			r.Failed++
		} else {
			r.Successful++
		}
	}
	return r
}

// JSON renders the report for a tool result.
func (r Report) JSON() string {
	out, _ := json.MarshalIndent(r, "", "  ")
	return string(out)
}

// IDs reads the ids in args[key]. The value can be a single id, a JSON
// array of ids in a string, or an array of strings.
func IDs(args map[string]interface{}, key string) ([]string, error) {
	var items []interface{}

	switch v := args[key].(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", key)
	case string:
		v = strings.TrimSpace(v)
		if !strings.HasPrefix(v, "[") || json.Unmarshal([]byte(v), &items) != nil {
			if v == "" {
				return nil, fmt.Errorf("%s cannot be empty", key)
			}
			return []string{v}, nil
		}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []interface{}:
		items = v
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", key)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", key)
	}
	ids := make([]string, len(items))
	for i, item := range items {
		id, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", key, i)
		}
		if id = strings.TrimSpace(id); id == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", key, i)
		}
		ids[i] = id
	}
	return ids, nil
}

// Run calls fn for every id with at most limit calls in flight and reports
// each outcome. One failing id does not stop the others; ids not started
// before ctx is done fail with ctx's error.
func Run(ctx context.Context, ids []string, limit int, fn func(ctx context.Context, id string) (string, error)) Report {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	outcomes := make([]Outcome, len(ids))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = Outcome{ID: id, Status: "success"}
			err := ctx.Err()
			if err == nil {
				outcomes[i].Result, err = fn(ctx, id)
			}
			if err != nil {
				outcomes[i] = Outcome{ID: id, Status: "error", Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()

	return NewReport(outcomes)
}
