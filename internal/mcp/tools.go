// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents read the plan and edit days, locations, and notes

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/itinerary/internal/geocode"
	"github.com/harper/itinerary/internal/models"
	"github.com/harper/itinerary/internal/plan"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerGetPlanTool()
	s.registerCreateDayTool()
	s.registerDeleteDayTool()
	s.registerAddLocationTool()
	s.registerAddNoteTool()
	s.registerUpdateLocationTool()
	s.registerUpdateNoteTool()
	s.registerDeleteItemTool()
	s.registerMoveItemTool()
	s.registerSelectDayTool()
	s.registerSetDatesTool()
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

const dayRefDescription = "Day number (1-based) or day ID"

func textResult(output interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// ItemOutput is a location or a note.
type ItemOutput struct {
	Type          string   `json:"type"`
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	GoogleAddress string   `json:"google_address,omitempty"`
	Time          string   `json:"time,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Content       string   `json:"content,omitempty"`
	Timestamp     string   `json:"timestamp,omitempty"`
}

// DayOutput defines output for a day and its items.
type DayOutput struct {
	ID     string       `json:"id"`
	Number int          `json:"number"`
	Date   string       `json:"date,omitempty"`
	Items  []ItemOutput `json:"items"`
}

// PlanOutput defines output for get_plan.
type PlanOutput struct {
	Title         string      `json:"title"`
	StartDate     string      `json:"start_date,omitempty"`
	EndDate       string      `json:"end_date,omitempty"`
	SelectedDayID string      `json:"selected_day_id,omitempty"`
	Days          []DayOutput `json:"days"`
}

// MessageOutput defines output for tools that only report success.
type MessageOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toItemOutput(item models.Item) ItemOutput {
	switch it := item.(type) {
	case *models.Location:
		lat, lng := it.Lat, it.Lng
		return ItemOutput{
			Type:          string(models.TypeLocation),
			ID:            it.ID,
			Name:          it.Name,
			GoogleAddress: it.GoogleAddress,
			Time:          it.Time,
			Notes:         it.Notes,
			Latitude:      &lat,
			Longitude:     &lng,
		}
	case *models.Note:
		return ItemOutput{
			Type:      string(models.TypeNote),
			ID:        it.ID,
			Content:   it.Content,
			Timestamp: it.Timestamp.UTC().Format(time.RFC3339Nano),
		}
	default:
		return ItemOutput{}
	}
}

func toDayOutput(day *models.Day) DayOutput {
	items := day.ItemList()
	out := DayOutput{
		ID:     day.ID,
		Number: day.Number,
		Date:   day.Date.String(),
		Items:  make([]ItemOutput, len(items)),
	}
	for i, item := range items {
		out.Items[i] = toItemOutput(item)
	}
	return out
}

// resolveDay maps a day reference onto the live plan.
func (s *Server) resolveDay(ref string) (*models.Day, error) {
	return plan.ResolveDay(s.store.Plan(), ref)
}

// GetPlanInput is empty but required for type.
type GetPlanInput struct{}

func (s *Server) registerGetPlanTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get the travel plan: title, dates, the selected day, and every day with its ordered locations and notes.",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, s.handleGetPlan)
}

func (s *Server) handleGetPlan(_ context.Context, _ *mcp.CallToolRequest, _ GetPlanInput) (*mcp.CallToolResult, PlanOutput, error) {
	p := s.store.Plan()
	output := PlanOutput{
		Title:         p.Title,
		StartDate:     p.StartDate.String(),
		EndDate:       p.EndDate.String(),
		SelectedDayID: s.store.Session().SelectedDayID,
		Days:          make([]DayOutput, len(p.Days)),
	}
	for i, day := range p.Days {
		output.Days[i] = toDayOutput(day)
	}
	return textResult(output), output, nil
}

// CreateDayInput is empty but required for type.
type CreateDayInput struct{}

func (s *Server) registerCreateDayTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_day",
		Description: "Append a day to the plan. The plan needs a start date first (see set_dates).",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, s.handleCreateDay)
}

func (s *Server) handleCreateDay(ctx context.Context, _ *mcp.CallToolRequest, _ CreateDayInput) (*mcp.CallToolResult, DayOutput, error) {
	day, err := s.store.CreateDay(ctx)
	if err != nil {
		return nil, DayOutput{}, fmt.Errorf("failed to create day: %w", err)
	}
	output := toDayOutput(day)
	return textResult(output), output, nil
}

// DayRefInput identifies a day.
type DayRefInput struct {
	Day string `json:"day"`
}

func (s *Server) registerDeleteDayTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_day",
		Description: "Delete a day and everything planned on it. Later days are renumbered. This cannot be undone.",
		InputSchema: objectSchema(map[string]interface{}{
			"day": prop("string", dayRefDescription),
		}, "day"),
	}, s.handleDeleteDay)
}

func (s *Server) handleDeleteDay(ctx context.Context, _ *mcp.CallToolRequest, input DayRefInput) (*mcp.CallToolResult, MessageOutput, error) {
	day, err := s.resolveDay(input.Day)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	if err := s.store.DeleteDay(ctx, day.ID); err != nil {
		return nil, MessageOutput{}, fmt.Errorf("failed to delete day: %w", err)
	}
	output := MessageOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted day %d with %d items", day.Number, len(day.ItemList())),
	}
	return textResult(output), output, nil
}

// AddLocationInput defines input for add_location tool.
type AddLocationInput struct {
	Day       string   `json:"day"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Time      string   `json:"time,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (s *Server) registerAddLocationTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_location",
		Description: "Add a place to visit at the end of a day. Without coordinates the address (or name) is geocoded.",
		InputSchema: objectSchema(map[string]interface{}{
			"day":       prop("string", dayRefDescription),
			"name":      prop("string", "Name of the place (e.g., 'Louvre')"),
			"address":   prop("string", "Optional street address"),
			"time":      prop("string", "Optional time of visit (e.g., '10:00')"),
			"notes":     prop("string", "Optional notes about the visit"),
			"latitude":  prop("number", "Latitude (-90 to 90); requires longitude"),
			"longitude": prop("number", "Longitude (-180 to 180); requires latitude"),
		}, "day", "name"),
	}, s.handleAddLocation)
}

// geocodeQuery resolves the first non-blank query.
func (s *Server) geocodeQuery(ctx context.Context, queries ...string) (geocode.Result, error) {
	if s.geocoder == nil {
		return geocode.Result{}, fmt.Errorf("%w: no geocoder configured, pass latitude and longitude", plan.ErrIncompleteLocation)
	}
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			return geocode.Search(ctx, s.geocoder, q)
		}
	}
	return geocode.Result{}, fmt.Errorf("%w: nothing to geocode", plan.ErrIncompleteLocation)
}

func (s *Server) handleAddLocation(ctx context.Context, _ *mcp.CallToolRequest, input AddLocationInput) (*mcp.CallToolResult, ItemOutput, error) {
	day, err := s.resolveDay(input.Day)
	if err != nil {
		return nil, ItemOutput{}, err
	}

	draft := plan.LocationDraft{
		Name:          input.Name,
		GoogleAddress: input.Address,
		Time:          input.Time,
		Notes:         input.Notes,
		Lat:           input.Latitude,
		Lng:           input.Longitude,
	}
	if draft.Lat == nil && draft.Lng == nil {
		res, err := s.geocodeQuery(ctx, input.Address, input.Name)
		if err != nil {
			return nil, ItemOutput{}, fmt.Errorf("failed to locate %q: %w", input.Name, err)
		}
		draft.Lat, draft.Lng = &res.Lat, &res.Lng
		if strings.TrimSpace(draft.GoogleAddress) == "" {
			draft.GoogleAddress = res.FormattedAddress
		}
	}

	item, err := s.store.AddItem(ctx, day.ID, draft)
	if err != nil {
		return nil, ItemOutput{}, fmt.Errorf("failed to add location: %w", err)
	}
	output := toItemOutput(item)
	return textResult(output), output, nil
}

// AddNoteInput defines input for add_note tool.
type AddNoteInput struct {
	Day     string `json:"day"`
	Content string `json:"content"`
}

func (s *Server) registerAddNoteTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_note",
		Description: "Add a free-form note at the end of a day.",
		InputSchema: objectSchema(map[string]interface{}{
			"day":     prop("string", dayRefDescription),
			"content": prop("string", "Note text"),
		}, "day", "content"),
	}, s.handleAddNote)
}

func (s *Server) handleAddNote(ctx context.Context, _ *mcp.CallToolRequest, input AddNoteInput) (*mcp.CallToolResult, ItemOutput, error) {
	day, err := s.resolveDay(input.Day)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	item, err := s.store.AddItem(ctx, day.ID, plan.NoteDraft{Content: input.Content})
	if err != nil {
		return nil, ItemOutput{}, fmt.Errorf("failed to add note: %w", err)
	}
	output := toItemOutput(item)
	return textResult(output), output, nil
}

// UpdateLocationInput defines input for update_location tool. Omitted
// fields are unchanged.
type UpdateLocationInput struct {
	Day       string   `json:"day"`
	Item      string   `json:"item"`
	Name      *string  `json:"name,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Time      *string  `json:"time,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (s *Server) registerUpdateLocationTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_location",
		Description: "Change fields of a location. Renaming without coordinates geocodes the new name.",
		InputSchema: objectSchema(map[string]interface{}{
			"day":       prop("string", dayRefDescription),
			"item":      prop("string", "Item position in the day (1-based), ID, or unique ID prefix"),
			"name":      prop("string", "New name"),
			"address":   prop("string", "New street address"),
			"time":      prop("string", "New time of visit"),
			"notes":     prop("string", "New notes"),
			"latitude":  prop("number", "New latitude; requires longitude"),
			"longitude": prop("number", "New longitude; requires latitude"),
		}, "day", "item"),
	}, s.handleUpdateLocation)
}

// resolveItem maps day and item references onto the live plan.
func (s *Server) resolveItem(dayRef, itemRef string) (*models.Day, models.Item, error) {
	day, err := s.resolveDay(dayRef)
	if err != nil {
		return nil, nil, err
	}
	item, err := plan.ResolveItem(day, itemRef)
	if err != nil {
		return nil, nil, err
	}
	return day, item, nil
}

func (s *Server) handleUpdateLocation(ctx context.Context, _ *mcp.CallToolRequest, input UpdateLocationInput) (*mcp.CallToolResult, ItemOutput, error) {
	day, item, err := s.resolveItem(input.Day, input.Item)
	if err != nil {
		return nil, ItemOutput{}, err
	}

	patch := plan.LocationPatch{
		Name:          input.Name,
		GoogleAddress: input.Address,
		Time:          input.Time,
		Notes:         input.Notes,
		Lat:           input.Latitude,
		Lng:           input.Longitude,
	}
	updated, err := s.store.UpdateItem(ctx, day.ID, item.ItemID(), patch)
	if errors.Is(err, plan.ErrNeedsGeocode) && s.geocoder != nil {
		var address string
		if input.Address != nil {
			address = *input.Address
		}
		res, gerr := s.geocodeQuery(ctx, address, *input.Name)
		if gerr != nil {
			return nil, ItemOutput{}, fmt.Errorf("failed to locate %q: %w", *input.Name, gerr)
		}
		patch.Lat, patch.Lng = &res.Lat, &res.Lng
		updated, err = s.store.UpdateItem(ctx, day.ID, item.ItemID(), patch)
	}
	if err != nil {
		return nil, ItemOutput{}, fmt.Errorf("failed to update location: %w", err)
	}
	output := toItemOutput(updated)
	return textResult(output), output, nil
}

// UpdateNoteInput defines input for update_note tool.
type UpdateNoteInput struct {
	Day     string `json:"day"`
	Item    string `json:"item"`
	Content string `json:"content"`
}

func (s *Server) registerUpdateNoteTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_note",
		Description: "Replace the text of a note. The note keeps its original timestamp.",
		InputSchema: objectSchema(map[string]interface{}{
			"day":     prop("string", dayRefDescription),
			"item":    prop("string", "Item position in the day (1-based), ID, or unique ID prefix"),
			"content": prop("string", "New note text"),
		}, "day", "item", "content"),
	}, s.handleUpdateNote)
}

func (s *Server) handleUpdateNote(ctx context.Context, _ *mcp.CallToolRequest, input UpdateNoteInput) (*mcp.CallToolResult, ItemOutput, error) {
	day, item, err := s.resolveItem(input.Day, input.Item)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	updated, err := s.store.UpdateItem(ctx, day.ID, item.ItemID(), plan.NotePatch{Content: &input.Content})
	if err != nil {
		return nil, ItemOutput{}, fmt.Errorf("failed to update note: %w", err)
	}
	output := toItemOutput(updated)
	return textResult(output), output, nil
}

// ItemRefInput identifies an item within a day.
type ItemRefInput struct {
	Day  string `json:"day"`
	Item string `json:"item"`
}

func (s *Server) registerDeleteItemTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_item",
		Description: "Delete a location or note from a day. This cannot be undone.",
		InputSchema: objectSchema(map[string]interface{}{
			"day":  prop("string", dayRefDescription),
			"item": prop("string", "Item position in the day (1-based), ID, or unique ID prefix"),
		}, "day", "item"),
	}, s.handleDeleteItem)
}

func (s *Server) handleDeleteItem(ctx context.Context, _ *mcp.CallToolRequest, input ItemRefInput) (*mcp.CallToolResult, MessageOutput, error) {
	day, item, err := s.resolveItem(input.Day, input.Item)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	if err := s.store.DeleteItem(ctx, day.ID, item.ItemID()); err != nil {
		return nil, MessageOutput{}, fmt.Errorf("failed to delete item: %w", err)
	}
	output := MessageOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted %s %s from day %d", item.Type(), item.ItemID(), day.Number),
	}
	return textResult(output), output, nil
}

// MoveItemInput defines input for move_item tool.
type MoveItemInput struct {
	Item  string `json:"item"`
	ToDay string `json:"to_day"`
	Index *int   `json:"index,omitempty"`
}

func (s *Server) registerMoveItemTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "move_item",
		Description: "Move an item within its day or to another day. The index counts items in the target day with the moved item taken out; omit it to append.",
		InputSchema: objectSchema(map[string]interface{}{
			"item":   prop("string", "Item ID or unique ID prefix"),
			"to_day": prop("string", dayRefDescription),
			"index":  prop("integer", "0-based position in the target day"),
		}, "item", "to_day"),
	}, s.handleMoveItem)
}

func (s *Server) handleMoveItem(ctx context.Context, _ *mcp.CallToolRequest, input MoveItemInput) (*mcp.CallToolResult, DayOutput, error) {
	p := s.store.Plan()
	src, item, err := plan.FindItem(p, input.Item)
	if err != nil {
		return nil, DayOutput{}, err
	}
	dst, err := plan.ResolveDay(p, input.ToDay)
	if err != nil {
		return nil, DayOutput{}, err
	}

	index := len(dst.ItemList())
	if input.Index != nil {
		index = *input.Index
	}
	if err := s.store.ReorderItem(ctx, src.ID, dst.ID, item.ItemID(), index); err != nil {
		return nil, DayOutput{}, fmt.Errorf("failed to move item: %w", err)
	}

	moved := s.store.Plan().FindDay(dst.ID)
	if moved == nil {
		return nil, DayOutput{}, plan.ErrDayNotFound
	}
	output := toDayOutput(moved)
	return textResult(output), output, nil
}

// SelectDayInput defines input for select_day tool.
type SelectDayInput struct {
	Day string `json:"day,omitempty"`
}

// SelectionOutput reports the selected day.
type SelectionOutput struct {
	SelectedDayID string `json:"selected_day_id"`
	Number        int    `json:"number,omitempty"`
}

func (s *Server) registerSelectDayTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "select_day",
		Description: "Focus a single day for display and export. Omit day to show all days again.",
		InputSchema: objectSchema(map[string]interface{}{
			"day": prop("string", dayRefDescription),
		}),
	}, s.handleSelectDay)
}

func (s *Server) handleSelectDay(_ context.Context, _ *mcp.CallToolRequest, input SelectDayInput) (*mcp.CallToolResult, SelectionOutput, error) {
	var output SelectionOutput
	if strings.TrimSpace(input.Day) != "" {
		day, err := s.resolveDay(input.Day)
		if err != nil {
			return nil, SelectionOutput{}, err
		}
		output = SelectionOutput{SelectedDayID: day.ID, Number: day.Number}
	}
	if err := s.store.SelectDay(output.SelectedDayID); err != nil {
		return nil, SelectionOutput{}, fmt.Errorf("failed to select day: %w", err)
	}
	return textResult(output), output, nil
}

// SetDatesInput defines input for set_dates tool.
type SetDatesInput struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

func (s *Server) registerSetDatesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_dates",
		Description: "Set the trip start and optional end date (YYYY-MM-DD). Existing days are redated from the start.",
		InputSchema: objectSchema(map[string]interface{}{
			"start": prop("string", "Start date, YYYY-MM-DD"),
			"end":   prop("string", "Optional end date, YYYY-MM-DD"),
		}, "start"),
	}, s.handleSetDates)
}

func (s *Server) handleSetDates(ctx context.Context, req *mcp.CallToolRequest, input SetDatesInput) (*mcp.CallToolResult, PlanOutput, error) {
	start, err := models.ParseDate(input.Start)
	if err != nil {
		return nil, PlanOutput{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := models.ParseDate(input.End)
	if err != nil {
		return nil, PlanOutput{}, fmt.Errorf("invalid end date: %w", err)
	}
	if err := s.store.SetDateRange(ctx, start, end); err != nil {
		return nil, PlanOutput{}, fmt.Errorf("failed to set dates: %w", err)
	}
	return s.handleGetPlan(ctx, req, GetPlanInput{})
}
