package model

type Settings struct {
	CaptureLocation bool `json:"capture_location"`
}
