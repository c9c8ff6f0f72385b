package domain

// SliderSpec describes one range control.
type SliderSpec struct {
	Min     int   `json:"min"`
	Max     int   `json:"max"`
	Step    int   `json:"step"`
	Default Range `json:"default"`
}

// CategoryOption is one entry of the category multi-select.
type CategoryOption struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// ControlOptions describes every input control of the dashboard.
type ControlOptions struct {
	Categories []CategoryOption `json:"categories"`
	Written    SliderSpec       `json:"written"`
	Interview  SliderSpec       `json:"interview"`
	Year       SliderSpec       `json:"year"`
	Rank       SliderSpec       `json:"rank"`
	Defaults   Constraints      `json:"defaults"`
}

// DatasetInfo describes the loaded dataset snapshot.
type DatasetInfo struct {
	SnapshotID string `json:"snapshot_id"`
	Source     string `json:"source"`
	Rows       int    `json:"rows"`
	Categories int    `json:"categories"`
	LoadedAt   string `json:"loaded_at"`
}
