package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolNameCompare  = "seasonality_compare"
	ToolNameSeason   = "seasonality_season"
	ToolNameHolidays = "seasonality_holidays"
)

// Tab names accepted by the season tool.
const (
	TabUser       = "user"
	TabAdvertiser = "advertiser"
)

var (
	// ErrNotLoaded is returned while no data has been loaded yet.
	ErrNotLoaded = errors.New("data is not loaded yet")
	// ErrInvalidSelection wraps selections that fail validation.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrUnknownTab is returned for a season tab other than user or advertiser.
	ErrUnknownTab = errors.New("tab must be user or advertiser")
)

// CompareInput is the input of seasonality_compare. Empty selection fields
// use the defaults (USA, IOS, gaming, all).
type CompareInput struct {
	Country          string `json:"country,omitempty"           jsonschema:"ISO-3 country code, e.g. USA"`
	System           string `json:"system,omitempty"            jsonschema:"operating system: IOS or ANDROID"`
	Category         string `json:"category,omitempty"          jsonschema:"gaming or consumer"`
	Vertical         string `json:"vertical,omitempty"          jsonschema:"vertical within the category, or all"`
	Season           string `json:"season,omitempty"            jsonschema:"past or current holiday season"`
	Period           string `json:"period,omitempty"            jsonschema:"season period id, e.g. all or peak-season"`
	UserMetric       string `json:"user_metric,omitempty"       jsonschema:"indexed user-engagement metric key"`
	AdvertiserMetric string `json:"advertiser_metric,omitempty" jsonschema:"indexed advertiser metric key"`
}

// SeasonInput is the input of seasonality_season.
type SeasonInput struct {
	Country  string `json:"country,omitempty"  jsonschema:"ISO-3 country code, e.g. USA"`
	System   string `json:"system,omitempty"   jsonschema:"operating system: IOS or ANDROID"`
	Category string `json:"category,omitempty" jsonschema:"gaming or consumer"`
	Vertical string `json:"vertical,omitempty" jsonschema:"vertical within the category, or all"`
	Tab      string `json:"tab,omitempty"      jsonschema:"user (default) or advertiser"`
}

// HolidaysInput is the input of seasonality_holidays.
type HolidaysInput struct {
	Season string `json:"season,omitempty" jsonschema:"past or current holiday season"`
	Period string `json:"period,omitempty" jsonschema:"season period id, e.g. all or peak-season"`
}

// ToolOutput wraps the structured result of every tool.
type ToolOutput struct {
	Data any `json:"data"`
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}
