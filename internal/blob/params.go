package blob

// Settings holds the user-tunable detection parameters. Exactly these three
// fields are recognized; anything a caller does not override keeps the
// engine default.
type Settings struct {
	// MinSize is the minimum accepted blob dimension in pixels. Detected
	// regions and fiducial blobs smaller than this in either dimension
	// are rejected.
	MinSize int `json:"min_size"`

	// Threshold is the grayscale cut (0-255) dividing "dark" from "light".
	Threshold uint8 `json:"threshold"`

	// Padding is a signed inflation applied to detected region rectangles.
	// Negative values shrink the result.
	Padding int `json:"padding"`
}

// DefaultSettings returns the documented engine defaults.
func DefaultSettings() Settings {
	return Settings{
		MinSize:   15,
		Threshold: 160,
		Padding:   0,
	}
}

// WithMinSize returns a copy of the settings with a different minimum size.
func (s Settings) WithMinSize(minSize int) Settings {
	s.MinSize = minSize
	return s
}

// WithThreshold returns a copy of the settings with a different gray cut.
func (s Settings) WithThreshold(threshold uint8) Settings {
	s.Threshold = threshold
	return s
}

// WithPadding returns a copy of the settings with a different padding.
func (s Settings) WithPadding(padding int) Settings {
	s.Padding = padding
	return s
}
