package dashboard

// Chart is a declarative chart definition in the Chart.js configuration
// schema. ID names the canvas element it is drawn on.
type Chart struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data is the category axis and the series drawn against it.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series. A nil value is a gap.
type Dataset struct {
	Gradient                  *Gradient  `json:"gradient,omitempty"`
	PointRadius               *int       `json:"pointRadius,omitempty"`
	Label                     string     `json:"label"`
	BorderColor               string     `json:"borderColor,omitempty"`
	BackgroundColor           string     `json:"backgroundColor,omitempty"`
	PointHoverBackgroundColor string     `json:"pointHoverBackgroundColor,omitempty"`
	YAxisID                   string     `json:"yAxisID,omitempty"`
	Data                      []*float64 `json:"data"`
	Tension                   float64    `json:"tension,omitempty"`
	BorderWidth               int        `json:"borderWidth,omitempty"`
	PointHoverRadius          int        `json:"pointHoverRadius,omitempty"`
	BorderRadius              int        `json:"borderRadius,omitempty"`
	Fill                      bool       `json:"fill,omitempty"`
}

// Gradient is a vertical fill from From (top) to To (bottom). The page script
// turns it into a canvas gradient of the given pixel height.
type Gradient struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Height int    `json:"height"`
}

// Options are the Chart.js chart options.
type Options struct {
	Scales              map[string]Scale `json:"scales"`
	Interaction         Interaction      `json:"interaction"`
	Plugins             Plugins          `json:"plugins"`
	Responsive          bool             `json:"responsive"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
}

// Interaction controls hover behavior.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// Plugins holds legend and tooltip settings.
type Plugins struct {
	Legend  Legend  `json:"legend"`
	Tooltip Tooltip `json:"tooltip"`
}

// Legend settings.
type Legend struct {
	Position string       `json:"position"`
	Align    string       `json:"align"`
	Labels   LegendLabels `json:"labels"`
	Display  bool         `json:"display"`
}

// LegendLabels settings.
type LegendLabels struct {
	Font          Font `json:"font"`
	BoxWidth      int  `json:"boxWidth"`
	BoxHeight     int  `json:"boxHeight"`
	Padding       int  `json:"padding"`
	UsePointStyle bool `json:"usePointStyle"`
}

// Tooltip settings.
type Tooltip struct {
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	TitleFont       Font   `json:"titleFont"`
	BodyFont        Font   `json:"bodyFont"`
	BorderWidth     int    `json:"borderWidth"`
	Padding         int    `json:"padding"`
	CornerRadius    int    `json:"cornerRadius"`
}

// Font settings.
type Font struct {
	Family string `json:"family,omitempty"`
	Weight string `json:"weight,omitempty"`
	Size   int    `json:"size,omitempty"`
}

// Scale is one axis.
type Scale struct {
	Time     *TimeScale `json:"time,omitempty"`
	Grid     *Grid      `json:"grid,omitempty"`
	Ticks    *Ticks     `json:"ticks,omitempty"`
	Title    *AxisTitle `json:"title,omitempty"`
	Min      *float64   `json:"min,omitempty"`
	Max      *float64   `json:"max,omitempty"`
	Type     string     `json:"type,omitempty"`
	Position string     `json:"position,omitempty"`
	Stacked  bool       `json:"stacked,omitempty"`
}

// TimeScale configures a time axis.
type TimeScale struct {
	DisplayFormats map[string]string `json:"displayFormats"`
	Unit           string            `json:"unit"`
}

// Grid settings. A nil Display leaves the Chart.js default.
type Grid struct {
	Display *bool  `json:"display,omitempty"`
	Color   string `json:"color,omitempty"`
}

// Ticks settings.
type Ticks struct {
	Font        Font `json:"font"`
	MaxRotation *int `json:"maxRotation,omitempty"`
}

// AxisTitle settings.
type AxisTitle struct {
	Text    string `json:"text"`
	Font    Font   `json:"font"`
	Display bool   `json:"display"`
}

func ptr[T any](v T) *T { return &v }

// baseOptions returns a fresh copy of the shared chart options.
func (c Config) baseOptions() Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Interaction:         Interaction{Mode: "index", Intersect: false},
		Plugins: Plugins{
			Legend: Legend{
				Display:  true,
				Position: "top",
				Align:    "end",
				Labels: LegendLabels{
					BoxWidth:      8,
					BoxHeight:     8,
					UsePointStyle: true,
					Padding:       16,
					Font:          Font{Size: 11},
				},
			},
			Tooltip: Tooltip{
				BackgroundColor: c.TooltipBackground,
				BorderColor:     c.BorderColor,
				BorderWidth:     1,
				Padding:         12,
				TitleFont:       Font{Size: 12, Weight: "600"},
				BodyFont:        Font{Size: 11},
				CornerRadius:    8,
			},
		},
		Scales: map[string]Scale{
			"x": c.xScale(),
			"y": c.yScale(),
		},
	}
}

func (c Config) xScale() Scale {
	return Scale{
		Type: "time",
		Time: &TimeScale{
			Unit:           "day",
			DisplayFormats: map[string]string{"day": "MMM d"},
		},
		Grid:  &Grid{Display: ptr(false)},
		Ticks: &Ticks{Font: Font{Size: 10}, MaxRotation: ptr(0)},
	}
}

func (c Config) yScale() Scale {
	return Scale{
		Grid:  &Grid{Color: c.GridColor},
		Ticks: &Ticks{Font: Font{Size: 10}},
	}
}
