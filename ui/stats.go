package ui

import (
	"fmt"
)

// RabbitView is a value copy of the selected rabbit taken once per frame.
type RabbitView struct {
	Name       string
	Female     bool
	Generation int
	Age        float32
	MaxAge     float32
	Speed      float32
	Litter     int
	Activity   string

	Water, WaterThreshold float32
	Food, FoodThreshold   float32
	Mate, MateThreshold   float32
	NeedMax               float32

	Impregnated   int
	Pregnant      bool
	Pregnancy     float32
	PregnancyFull float32
	Childbirths   int
}

func rv(d any) *RabbitView { return d.(*RabbitView) }

func isMale(d any) bool   { return !rv(d).Female }
func isFemale(d any) bool { return rv(d).Female }

// RabbitPanel describes the selected-rabbit stats panel.
var RabbitPanel = PanelDescriptor{
	ID:    "rabbit",
	Width: 280,
	Sections: []SectionDescriptor{
		{
			ID: "identity",
			Fields: []FieldDescriptor{
				{ID: "sex", Label: "Sex", TextGetter: func(d any) string {
					if rv(d).Female {
						return "female"
					}
					return "male"
				}},
				{ID: "generation", Label: "Generation", TextGetter: func(d any) string {
					return fmt.Sprintf("%d", rv(d).Generation)
				}},
				{ID: "age", Label: "Age", TextGetter: func(d any) string {
					return fmt.Sprintf("%.0f / %.0f s", rv(d).Age, rv(d).MaxAge)
				}},
				{ID: "speed", Label: "Speed", Format: "%.2f", Getter: func(d any) float32 { return rv(d).Speed }},
				{ID: "litter", Label: "Litter size", TextGetter: func(d any) string {
					return fmt.Sprintf("%d", rv(d).Litter)
				}},
				{ID: "activity", Label: "Activity", TextGetter: func(d any) string { return rv(d).Activity }},
			},
		},
		{
			ID:    "needs",
			Title: "Needs",
			Fields: []FieldDescriptor{
				{
					ID: "water", Label: "Water", Widget: WidgetNeedBar,
					Getter:    func(d any) float32 { return rv(d).Water },
					Max:       func(d any) float32 { return rv(d).NeedMax },
					Threshold: func(d any) float32 { return rv(d).WaterThreshold },
				},
				{
					ID: "food", Label: "Food", Widget: WidgetNeedBar,
					Getter:    func(d any) float32 { return rv(d).Food },
					Max:       func(d any) float32 { return rv(d).NeedMax },
					Threshold: func(d any) float32 { return rv(d).FoodThreshold },
				},
				{
					ID: "mate", Label: "Mate desire", Widget: WidgetNeedBar, Visible: isMale,
					Getter: func(d any) float32 { return rv(d).Mate },
					Max:    func(d any) float32 { return rv(d).NeedMax },
					// Desire above the marker sends him looking.
					Threshold: func(d any) float32 { return rv(d).MateThreshold },
				},
			},
		},
		{
			ID:    "breeding",
			Title: "Breeding",
			Fields: []FieldDescriptor{
				{ID: "impregnated", Label: "Impregnated", Visible: isMale, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", rv(d).Impregnated)
				}},
				{
					ID: "pregnancy", Label: "Pregnancy", Widget: WidgetNeedBar,
					Visible: func(d any) bool { return rv(d).Pregnant },
					Getter:  func(d any) float32 { return rv(d).Pregnancy },
					Max:     func(d any) float32 { return rv(d).PregnancyFull },
				},
				{ID: "childbirths", Label: "Childbirths", Visible: isFemale, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", rv(d).Childbirths)
				}},
			},
		},
	},
}

// StatsPanel renders the selected rabbit's stats in the top-right corner.
type StatsPanel struct {
	renderer *Renderer
	margin   int32
}

// NewStatsPanel creates a stats panel.
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), margin: 10}
}

// Draw renders the panel for view against a screen of the given width.
func (s *StatsPanel) Draw(view *RabbitView, screenW int32) {
	pd := RabbitPanel
	pd.Title = view.Name
	x := screenW - pd.Width - s.margin
	s.renderer.DrawPanelDescriptor(x, s.margin, pd, view)
}
