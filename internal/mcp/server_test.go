package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/internal/fixture"
	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/mcp"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/format"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

func newServer(t *testing.T, loaded bool) *mcp.Server {
	t.Helper()

	holder := &loader.Holder{}

	if loaded {
		b, err := loader.Load(t.Context(), fixture.Source(), loader.Options{})
		require.NoError(t, err)

		holder.Store(b)
	}

	return mcp.NewServer(mcp.ServerDeps{Holder: holder, Calendar: season.DefaultCalendar()})
}

// connect runs srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func call(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(t.Context(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func text(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return tc.Text
}

func TestNewServer_ToolsRegistered(t *testing.T) {
	t.Parallel()

	srv := newServer(t, false)

	assert.Equal(t, []string{
		mcp.ToolNameCompare,
		mcp.ToolNameHolidays,
		mcp.ToolNameSeason,
	}, srv.ListToolNames())
}

func TestListTools(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, false))

	res, err := session.ListTools(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 3)

	for _, tool := range res.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, true))

	result := call(t, session, mcp.ToolNameCompare, map[string]any{
		"advertiser_metric": dataset.MetricCPM,
	})
	require.False(t, result.IsError, text(t, result))

	var body struct {
		NoData bool    `json:"noData"`
		Lo     float64 `json:"lo"`
		Hi     float64 `json:"hi"`
		Weeks  []struct {
			Week           int    `json:"week"`
			UserText       string `json:"userText"`
			AdvertiserText string `json:"advertiserText"`
		} `json:"weeks"`
		Crossings []struct {
			AfterWeek int     `json:"afterWeek"`
			Value     float64 `json:"value"`
		} `json:"crossings"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &body))

	assert.False(t, body.NoData)
	assert.InDelta(t, 80, body.Lo, 0)
	assert.InDelta(t, 120, body.Hi, 0)
	require.Len(t, body.Weeks, len(season.FullWeekAxis()))

	assert.Equal(t, season.SeasonStartWeek, body.Weeks[0].Week)
	assert.Equal(t, "100", body.Weeks[0].UserText)
	assert.Equal(t, "120", body.Weeks[0].AdvertiserText)
	assert.Equal(t, format.Placeholder, body.Weeks[2].AdvertiserText, "week 42 has no advertiser value")

	require.NotEmpty(t, body.Crossings)

	for _, c := range body.Crossings {
		assert.NotZero(t, c.AfterWeek)
		assert.GreaterOrEqual(t, c.Value, body.Lo)
		assert.LessOrEqual(t, c.Value, body.Hi)
	}
}

func TestCompare_Errors(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, true))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "system", args: map[string]any{"system": "windows"}, want: "unknown system"},
		{name: "metric", args: map[string]any{"user_metric": "nope"}, want: "unknown metric"},
		{name: "period", args: map[string]any{"period": "easter"}, want: "unknown period"},
		{name: "season", args: map[string]any{"season": "next"}, want: "unknown season"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := call(t, session, mcp.ToolNameCompare, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, text(t, result), tt.want)
		})
	}
}

func TestCompare_NotLoaded(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, false))

	result := call(t, session, mcp.ToolNameCompare, map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "not loaded")
}

func TestSeason(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, true))

	result := call(t, session, mcp.ToolNameSeason, map[string]any{"tab": "advertiser"})
	require.False(t, result.IsError, text(t, result))

	var body struct {
		Tab     string `json:"tab"`
		State   string `json:"state"`
		Metrics []struct {
			HasData bool `json:"hasData"`
			Weeks   []struct {
				Week int `json:"week"`
			} `json:"weeks"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &body))

	assert.Equal(t, mcp.TabAdvertiser, body.Tab)
	assert.Len(t, body.Metrics, 5)

	result = call(t, session, mcp.ToolNameSeason, map[string]any{"tab": "both"})
	assert.True(t, result.IsError)
}

func TestHolidays(t *testing.T) {
	t.Parallel()

	session := connect(t, newServer(t, false))

	result := call(t, session, mcp.ToolNameHolidays, map[string]any{"season": "current"})
	require.False(t, result.IsError, text(t, result))

	var body struct {
		Season   string `json:"season"`
		Period   string `json:"period"`
		Holidays []struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"holidays"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &body))

	assert.Equal(t, "current", body.Season)
	assert.Equal(t, string(season.PeriodAll), body.Period)
	require.NotEmpty(t, body.Holidays)

	for _, h := range body.Holidays {
		assert.NotEmpty(t, h.Name)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, h.Date)
	}
}
