package viewstate

import (
	"encoding/json"
	"fmt"

	"github.com/spectriclabs/sigmap-service/internal/colorpicker"
)

// Event is a control panel or map interaction.
type Event interface {
	eventType() string
}

// ToggleGrid shows or hides the heatmap.
type ToggleGrid struct {
	Checked bool `json:"checked"`
}

// ToggleIcons shows or hides the POI icons.
type ToggleIcons struct {
	Checked bool `json:"checked"`
}

// TogglePicker opens or closes one picker popover.
type TogglePicker struct {
	Index int `json:"index"`
}

// ClosePickers closes every picker popover.
type ClosePickers struct{}

// ChangeColor sets the color of one picker.
type ChangeColor struct {
	Index int                     `json:"index"`
	Color colorpicker.PickerColor `json:"color"`
}

// ViewStateChanged reports a new map zoom.
type ViewStateChanged struct {
	Zoom float64 `json:"zoom"`
}

// Hover replaces the tooltip text.
type Hover struct {
	Text string `json:"text"`
}

func (ToggleGrid) eventType() string       { return "toggleGrid" }
func (ToggleIcons) eventType() string      { return "toggleIcons" }
func (TogglePicker) eventType() string     { return "togglePicker" }
func (ClosePickers) eventType() string     { return "closePickers" }
func (ChangeColor) eventType() string      { return "changeColor" }
func (ViewStateChanged) eventType() string { return "viewStateChanged" }
func (Hover) eventType() string            { return "hover" }

// DecodeEvent decodes an event envelope of the form
// {"type": "changeColor", "index": 1, "color": {...}}.
func DecodeEvent(data []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}

	var e Event
	var err error
	switch envelope.Type {
	case "toggleGrid":
		var ev ToggleGrid
		err = json.Unmarshal(data, &ev)
		e = ev
	case "toggleIcons":
		var ev ToggleIcons
		err = json.Unmarshal(data, &ev)
		e = ev
	case "togglePicker":
		var ev TogglePicker
		err = json.Unmarshal(data, &ev)
		e = ev
	case "closePickers":
		e = ClosePickers{}
	case "changeColor":
		var ev ChangeColor
		err = json.Unmarshal(data, &ev)
		e = ev
	case "viewStateChanged":
		var ev ViewStateChanged
		err = json.Unmarshal(data, &ev)
		e = ev
	case "hover":
		var ev Hover
		err = json.Unmarshal(data, &ev)
		e = ev
	case "":
		return nil, fmt.Errorf("event type missing")
	default:
		return nil, fmt.Errorf("unknown event type %q", envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", envelope.Type, err)
	}
	return e, nil
}

// EncodeEvent writes e in the envelope form DecodeEvent reads.
func EncodeEvent(e Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typ, _ := json.Marshal(e.eventType())
	fields["type"] = typ
	return json.Marshal(fields)
}
