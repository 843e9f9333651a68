package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
	"github.com/punchcard-dev/punchcard/internal/core/config"
	"github.com/punchcard-dev/punchcard/internal/core/db"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/remote"
	"github.com/punchcard-dev/punchcard/internal/core/store"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
	"github.com/punchcard-dev/punchcard/internal/core/tracker"
)

// StartSessionArgs defines arguments for the start_session tool
type StartSessionArgs struct {
	Category string `json:"category" jsonschema:"description=Category to track time under,required"`
}

// ListSessionsArgs defines arguments for the list_sessions tool
type ListSessionsArgs struct {
	Category string `json:"category,omitempty" jsonschema:"description=Only sessions in this category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Max sessions to return (default: 20)"`
}

// SessionStatsArgs defines arguments for the session_stats tool
type SessionStatsArgs struct {
	Granularity string `json:"granularity,omitempty" jsonschema:"description=Reporting window: day, week, month or year (default: week)"`
}

// SessionRecord represents a session in tool output
type SessionRecord struct {
	ID              string `json:"id"`
	Category        string `json:"category"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

// BucketRecord represents one bucket of a stats report
type BucketRecord struct {
	Label        string         `json:"label"`
	Start        string         `json:"start"`
	End          string         `json:"end"`
	TotalMinutes int            `json:"total_minutes"`
	ByCategory   map[string]int `json:"by_category"`
}

type toolEnv struct {
	store   *store.Store
	tracker *tracker.Tracker
	owner   string
}

// newToolEnv wires the tool handlers' dependencies. The backend stays nil
// when no remote is configured, keeping the store in local-only mode.
func newToolEnv(cfg *config.Config, database *db.DB) *toolEnv {
	var backend remote.Backend
	if cfg.RemoteConfigured() {
		backend = remote.NewHTTP(cfg.Remote.URL, cfg.Remote.Token)
	}
	st := store.New(database, backend, nil)
	return &toolEnv{
		store:   st,
		tracker: tracker.New(st, cfg.Remote.Owner),
		owner:   cfg.Remote.Owner,
	}
}

// StartServer runs the tracker's MCP server over stdio.
func StartServer(dbPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	env := newToolEnv(cfg, database)
	defer env.store.Flush()

	s := server.NewMCPServer(
		"Punchcard",
		"1.0.0",
	)

	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start tracking time under a category. Any session already running is stopped at the same instant."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category to track time under")),
	)
	s.AddTool(startTool, makeStartSessionHandler(env))

	stopTool := mcp.NewTool("stop_session",
		mcp.WithDescription("Stop the currently running session, if any."),
	)
	s.AddTool(stopTool, makeStopSessionHandler(env))

	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List tracked sessions, newest first, optionally filtered by category."),
		mcp.WithString("category",
			mcp.Description("Only sessions in this category")),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
	)
	s.AddTool(listTool, makeListSessionsHandler(env))

	statsTool := mcp.NewTool("session_stats",
		mcp.WithDescription("Aggregate tracked time into calendar buckets for a reporting window (day, week, month or year)."),
		mcp.WithString("granularity",
			mcp.Description("Reporting window: day, week, month or year (default: week)")),
	)
	s.AddTool(statsTool, makeSessionStatsHandler(env))

	return server.ServeStdio(s)
}

func makeStartSessionHandler(env *toolEnv) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args StartSessionArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		session, err := env.tracker.Start(ctx, args.Category)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("start failed: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"session": toRecord(session, time.Now()),
		})
	}
}

func makeStopSessionHandler(env *toolEnv) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		session, err := env.tracker.StopActive(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stop failed: %v", err)), nil
		}
		if session == nil {
			return toolResultJSON(map[string]interface{}{
				"stopped": false,
			})
		}
		return toolResultJSON(map[string]interface{}{
			"stopped": true,
			"session": toRecord(*session, time.Now()),
		})
	}
}

func makeListSessionsHandler(env *toolEnv) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListSessionsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		sessions, err := env.store.LoadAll(ctx, env.owner)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}

		now := time.Now()
		records := make([]SessionRecord, 0, limit)
		for _, s := range sessions {
			if args.Category != "" && s.Category != args.Category {
				continue
			}
			records = append(records, toRecord(s, now))
			if len(records) >= limit {
				break
			}
		}

		return toolResultJSON(map[string]interface{}{
			"sessions": records,
		})
	}
}

func makeSessionStatsHandler(env *toolEnv) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SessionStatsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		granularity := aggregate.Week
		if args.Granularity != "" {
			g, err := aggregate.ParseGranularity(args.Granularity)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid granularity: %v", err)), nil
			}
			granularity = g
		}

		sessions, err := env.store.LoadAll(ctx, env.owner)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}

		report := aggregate.Build(sessions, time.Now(), granularity)
		buckets := make([]BucketRecord, 0, len(report.Buckets))
		for _, b := range report.Buckets {
			buckets = append(buckets, BucketRecord{
				Label:        b.Label,
				Start:        timeutil.FormatISO(b.Start),
				End:          timeutil.FormatISO(b.End),
				TotalMinutes: b.TotalMinutes,
				ByCategory:   b.ByCategory,
			})
		}

		return toolResultJSON(map[string]interface{}{
			"granularity":   report.Granularity.String(),
			"window_start":  timeutil.FormatISO(report.WindowStart),
			"window_end":    timeutil.FormatISO(report.WindowEnd),
			"total_minutes": report.TotalMinutes(),
			"buckets":       buckets,
			"by_category":   report.Pie,
		})
	}
}

func toRecord(s models.Session, now time.Time) SessionRecord {
	r := SessionRecord{
		ID:              s.ID,
		Category:        s.Category,
		StartTime:       timeutil.FormatISO(s.StartTime),
		DurationMinutes: timeutil.WholeMinutes(s.Duration(now)),
		Status:          s.Status(),
	}
	if s.EndTime != nil {
		r.EndTime = timeutil.FormatISO(*s.EndTime)
	}
	return r
}

func toolResultJSON(payload map[string]interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}
