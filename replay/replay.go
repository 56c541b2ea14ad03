// Package replay re-executes a single recorded tool call against its
// rehydrated pre-state and reports whether the new observation matches
// the one captured at record time.
package replay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentrecall/temporalcore/graph"
	"github.com/agentrecall/temporalcore/internal/canonjson"
	"github.com/agentrecall/temporalcore/internal/metrics"
	"github.com/agentrecall/temporalcore/rehydrate"
	"github.com/agentrecall/temporalcore/vfs"
)

// Report is the outcome of one replay invocation.
type Report struct {
	Success        bool
	Matches        bool
	OriginalOutput json.RawMessage
	ReplayOutput   json.RawMessage
	Error          string
}

// Engine replays ToolCalls recorded in a Graph Store against a VFS
// rehydrated by the given Rehydrator.
type Engine struct {
	graphStore graph.Store
	rehydrator *rehydrate.Rehydrator
	metrics    *metrics.Registry
}

// New returns an Engine reading ToolCalls from g and rehydrating
// pre-state via r.
func New(g graph.Store, r *rehydrate.Rehydrator) *Engine {
	return &Engine{graphStore: g, rehydrator: r}
}

// WithMetrics attaches a metrics.Registry that Replay will report
// match/mismatch counts to. Optional: an Engine with no registry
// attached simply skips instrumentation.
func (e *Engine) WithMetrics(m *metrics.Registry) *Engine {
	e.metrics = m
	return e
}

// Replay fetches the ToolCall (sessionID, eventID), rehydrates the VFS
// to just before it ran, re-executes it, and compares outputs.
func (e *Engine) Replay(ctx context.Context, sessionID, eventID string) Report {
	rows, err := e.graphStore.Query(ctx, graph.ToolCallFetchQuery, map[string]interface{}{
		"sessionId": sessionID,
		"eventId":   eventID,
	})
	if err != nil {
		return Report{Success: false, Error: fmt.Sprintf("fetching tool call: %v", err)}
	}
	if len(rows) == 0 {
		return Report{Success: false, Error: "tool call not found"}
	}
	row := rows[0]

	name, _ := row["tc.name"].(string)
	argsText, _ := row["tc.arguments"].(string)
	vtStart, _ := row["tc.vt_start"].(int64)

	var originalOutput json.RawMessage
	if resultPtr, ok := row["tc.result"].(*string); ok && resultPtr != nil {
		originalOutput = json.RawMessage(*resultPtr)
	}

	var args map[string]interface{}
	if argsText != "" {
		if err := json.Unmarshal([]byte(argsText), &args); err != nil {
			return Report{Success: false, Error: fmt.Sprintf("parsing arguments: %v", err)}
		}
	}

	v, err := e.rehydrator.Rehydrate(ctx, sessionID, vtStart-1)
	if err != nil {
		return Report{Success: false, Error: fmt.Sprintf("rehydrating pre-state: %v", err)}
	}

	replayOutput, execErr := dispatch(v, name, args)
	if execErr != nil {
		return Report{Success: false, Error: fmt.Sprintf("executing tool call: %v", execErr)}
	}

	// A recorded result that is absent counts as JSON-null for matching,
	// so a null-producing re-execution of a result-less call still matches.
	bothNull := canonjson.IsJSONNull(replayOutput) &&
		(originalOutput == nil || canonjson.IsJSONNull(originalOutput))
	matches := bothNull || canonjson.Equal(originalOutput, replayOutput)
	if e.metrics != nil {
		if matches {
			e.metrics.ReplayMatches.Inc()
		} else {
			e.metrics.ReplayMismatches.Inc()
		}
	}

	return Report{
		Success:        true,
		Matches:        matches,
		OriginalOutput: originalOutput,
		ReplayOutput:   replayOutput,
	}
}

// dispatch is the closed sum type over known tool names, each arm
// expressed purely in terms of VFS operations. Adding a tool requires
// one new case here, nothing else in the engine's state machine.
func dispatch(v *vfs.VFS, name string, args map[string]interface{}) (json.RawMessage, error) {
	path, _ := args["path"].(string)

	switch name {
	case "read_file":
		content, err := v.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"content": string(content)})

	case "write_file":
		content, _ := args["content"].(string)
		if err := v.WriteFile(path, []byte(content)); err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"success": true})

	case "list_directory":
		entries, err := v.ReadDir(path)
		if err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"entries": entries})

	case "mkdir", "create_directory":
		if err := v.Mkdir(path); err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"success": true})

	case "exists", "file_exists":
		return marshal(map[string]interface{}{"exists": v.Exists(path)})

	case "delete_file", "remove_file":
		if err := v.Remove(path); err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"success": true})

	case "move_file", "rename_file":
		from, _ := args["from"].(string)
		to, _ := args["to"].(string)
		if err := v.MoveFile(from, to); err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"success": true})

	default:
		return marshal(map[string]interface{}{
			"error": fmt.Sprintf("Tool '%s' replay not implemented", name),
			"args":  args,
		})
	}
}

func marshal(v interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
