package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/turbobar/internal/capture"
)

// draftOptions are the arguments shared by tools that accept a capture draft.
func draftOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("mode",
			mcp.Description("Capture mode: task, brainDump or inbox (default: task)"),
			mcp.Enum(string(capture.ModeTask), string(capture.ModeBrainDump), string(capture.ModeInbox)),
		),
		mcp.WithString("title",
			mcp.Description("Capture title. Either title or body is required."),
		),
		mcp.WithString("body",
			mcp.Description("Capture body text"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags for notes"),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean("taskNow",
			mcp.Description("Mark the task as NOW"),
		),
		mcp.WithString("taskPriority",
			mcp.Description("Task priority label, e.g. \"P2 🟠\""),
		),
		mcp.WithString("duePreset",
			mcp.Description("Due preset: none, today or tomorrow"),
			mcp.Enum(string(capture.DueNone), string(capture.DueToday), string(capture.DueTomorrow)),
		),
	}
}

var organizeToolDef = mcp.NewTool("capture_organize",
	append([]mcp.ToolOption{
		mcp.WithDescription("Classify a capture draft with Gemini and return the organized result without writing it. The result can be edited and passed to capture_write."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	}, draftOptions()...)...,
)

var writeToolDef = mcp.NewTool("capture_write",
	append(append([]mcp.ToolOption{
		mcp.WithDescription("Write a capture into its Notion collection. Classifies the draft first unless organize is false or a result is supplied."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	}, draftOptions()...),
		mcp.WithBoolean("organize",
			mcp.Description("Classify before writing (default: auto_organize from config)"),
		),
		mcp.WithObject("result",
			mcp.Description("A previously organized result (from capture_organize) to write as is"),
		),
		mcp.WithString("collection_id",
			mcp.Description("Target collection id or URL (default: the configured collection for the mode)"),
		),
	)...,
)

var listToolDef = mcp.NewTool("capture_list",
	mcp.WithDescription("List journaled captures, newest first."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("mode",
		mcp.Description("Filter by mode: task, brainDump or inbox"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of captures (default: 20, max: 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Pagination offset (default: 0)"),
	),
)

var fetchToolDef = mcp.NewTool("capture_fetch",
	mcp.WithDescription("Fetch one journaled capture by id."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Journal id returned by capture_write"),
	),
	mcp.WithBoolean("include_body",
		mcp.Description("Include the written body (default: true)"),
	),
)

var schemaToolDef = mcp.NewTool("collection_schema",
	mcp.WithDescription("Show a collection's property types and where each AI assignment would be written."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("collection_id",
		mcp.Description("Collection id or URL (default: the configured collection for the mode)"),
	),
	mcp.WithString("mode",
		mcp.Description("Mode whose property map applies: task, brainDump or inbox (default: task)"),
	),
)
